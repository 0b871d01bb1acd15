package jql

import "github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"

// Operator is one of the fixed comparison operators of the query dialect.
type Operator string

const (
	OpEquals     Operator = "="
	OpNotEquals  Operator = "!="
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpContains   Operator = "~"
	OpIsNull     Operator = "IS NULL"
	OpIsNotNull  Operator = "IS NOT NULL"
	OpIsEmpty    Operator = "IS EMPTY"
	OpIsNotEmpty Operator = "IS NOT EMPTY"
	OpGreater    Operator = ">"
	OpLess       Operator = "<"
	OpGreaterEq  Operator = ">="
	OpLessEq     Operator = "<="
)

// Condition is a single field predicate. Conditions combine with
// implicit AND only; the dialect has no OR and no nesting.
type Condition struct {
	Field  string
	Op     Operator
	Value  string
	Values []string
}

// OrderBy is the optional trailing ordering directive.
type OrderBy struct {
	Field      string
	Descending bool
}

// Query is a parsed structured query.
type Query struct {
	Conditions []Condition
	OrderBy    *OrderBy
}

// Result holds the outcome of executing a structured query.
type Result struct {
	Issues []*ticket.Ticket
	Total  int
	Query  string
}
