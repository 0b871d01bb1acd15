package jql

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

type fieldKind int

const (
	fieldUnknown fieldKind = iota
	fieldScalar
	fieldSet
	fieldTime
)

type fieldValue struct {
	kind    fieldKind
	scalar  string
	set     []string
	at      time.Time
	present bool
}

// resolve maps a query-level field name onto a ticket attribute. An
// unrecognized name yields fieldUnknown, which makes the condition a
// no-op: a deliberate leniency, not an error (see DESIGN.md).
func resolve(t *ticket.Ticket, name string) fieldValue {
	switch name {
	case "project":
		return fieldValue{kind: fieldScalar, scalar: t.ProjectKey(), present: true}
	case "status":
		return fieldValue{kind: fieldScalar, scalar: string(t.Status), present: true}
	case "priority":
		return fieldValue{kind: fieldScalar, scalar: string(t.Priority), present: true}
	case "type", "issuetype":
		return fieldValue{kind: fieldScalar, scalar: string(t.Type), present: true}
	case "assignee":
		if t.Assignee == nil {
			return fieldValue{kind: fieldScalar}
		}
		return fieldValue{kind: fieldScalar, scalar: t.Assignee.DisplayName, present: true}
	case "reporter":
		if t.Reporter == nil {
			return fieldValue{kind: fieldScalar}
		}
		return fieldValue{kind: fieldScalar, scalar: t.Reporter.DisplayName, present: true}
	case "labels":
		return fieldValue{kind: fieldSet, set: t.Labels, present: true}
	case "components":
		return fieldValue{kind: fieldSet, set: t.Components, present: true}
	case "summary":
		return fieldValue{kind: fieldScalar, scalar: t.Summary, present: true}
	case "description":
		return fieldValue{kind: fieldScalar, scalar: t.Description, present: true}
	case "created":
		return fieldValue{kind: fieldTime, at: t.Created, scalar: t.Created.Format(time.RFC3339), present: true}
	case "updated":
		return fieldValue{kind: fieldTime, at: t.Updated, scalar: t.Updated.Format(time.RFC3339), present: true}
	case "resolution":
		if t.Resolution == nil {
			return fieldValue{kind: fieldScalar}
		}
		return fieldValue{kind: fieldScalar, scalar: *t.Resolution, present: true}
	case "sprint":
		if t.Sprint == nil {
			return fieldValue{kind: fieldScalar}
		}
		return fieldValue{kind: fieldScalar, scalar: *t.Sprint, present: true}
	case "key":
		return fieldValue{kind: fieldScalar, scalar: t.Key, present: true}
	default:
		return fieldValue{kind: fieldUnknown}
	}
}

// Evaluate filters tickets by all conditions and applies the ordering
// directive. Input order is preserved for unordered queries and for
// equal sort keys.
func Evaluate(tickets []*ticket.Ticket, q Query) []*ticket.Ticket {
	matched := make([]*ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		ok := true
		for _, cond := range q.Conditions {
			if !matches(t, cond) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, t)
		}
	}
	if q.OrderBy != nil {
		Order(matched, q.OrderBy.Field, q.OrderBy.Descending)
	}
	return matched
}

func matches(t *ticket.Ticket, cond Condition) bool {
	fv := resolve(t, cond.Field)
	if fv.kind == fieldUnknown {
		return true
	}

	switch cond.Op {
	case OpIsNull:
		return !fv.present
	case OpIsNotNull:
		return fv.present
	case OpIsEmpty:
		return !fv.present || isEmpty(fv)
	case OpIsNotEmpty:
		return fv.present && !isEmpty(fv)
	case OpIn:
		return containsAny(fv, cond.Values)
	case OpNotIn:
		return !containsAny(fv, cond.Values)
	case OpContains:
		needle := strings.ToLower(cond.Value)
		if fv.kind == fieldSet {
			for _, v := range fv.set {
				if strings.Contains(strings.ToLower(v), needle) {
					return true
				}
			}
			return false
		}
		return strings.Contains(strings.ToLower(fv.scalar), needle)
	case OpEquals:
		if fv.kind == fieldSet {
			return member(fv.set, cond.Value)
		}
		return strings.EqualFold(fv.scalar, cond.Value)
	case OpNotEquals:
		if fv.kind == fieldSet {
			return !member(fv.set, cond.Value)
		}
		return !strings.EqualFold(fv.scalar, cond.Value)
	case OpGreater, OpLess, OpGreaterEq, OpLessEq:
		if fv.kind != fieldTime {
			return true
		}
		bound, ok := parseTimeOperand(cond.Value, time.Now())
		if !ok {
			// Unparseable operand never excludes records.
			return true
		}
		switch cond.Op {
		case OpGreater:
			return fv.at.After(bound)
		case OpLess:
			return fv.at.Before(bound)
		case OpGreaterEq:
			return !fv.at.Before(bound)
		default:
			return !fv.at.After(bound)
		}
	}
	return true
}

func isEmpty(fv fieldValue) bool {
	if fv.kind == fieldSet {
		return len(fv.set) == 0
	}
	return fv.scalar == ""
}

func member(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsAny(fv fieldValue, values []string) bool {
	if fv.kind == fieldSet {
		for _, v := range fv.set {
			if member(values, v) {
				return true
			}
		}
		return false
	}
	return member(values, fv.scalar)
}

var relativeTimeRe = regexp.MustCompile(`^-(\d+)([hdw])$`)

var absoluteTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// parseTimeOperand parses an absolute timestamp or a relative offset of
// the form -<N><unit> with unit h, d or w.
func parseTimeOperand(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)

	if m := relativeTimeRe.FindStringSubmatch(value); m != nil {
		n := 0
		for _, ch := range m[1] {
			n = n*10 + int(ch-'0')
		}
		switch m[2] {
		case "h":
			return now.Add(-time.Duration(n) * time.Hour), true
		case "d":
			return now.AddDate(0, 0, -n), true
		case "w":
			return now.AddDate(0, 0, -7*n), true
		}
	}

	for _, layout := range absoluteTimeLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// Order sorts tickets in place by the named field. Priority uses the
// fixed severity rank; created, updated, key and status sort
// lexicographically on the raw value. The sort is stable.
func Order(tickets []*ticket.Ticket, field string, descending bool) {
	key := func(t *ticket.Ticket) string {
		switch field {
		case "created":
			return t.Created.Format(time.RFC3339)
		case "updated":
			return t.Updated.Format(time.RFC3339)
		case "key":
			return t.Key
		case "status":
			return string(t.Status)
		default:
			return ""
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		var cmp int
		if field == "priority" {
			cmp = tickets[i].Priority.Rank() - tickets[j].Priority.Rank()
		} else {
			cmp = strings.Compare(key(tickets[i]), key(tickets[j]))
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
