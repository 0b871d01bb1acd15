package jql

import "fmt"

// ParseError reports a clause that matched none of the dialect's
// patterns. A parse failure aborts the whole query; there are no
// partial results.
type ParseError struct {
	Clause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse query clause: %s", e.Clause)
}
