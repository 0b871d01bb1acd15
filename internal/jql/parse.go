package jql

import (
	"regexp"
	"strings"
)

var (
	orderByRe  = regexp.MustCompile(`(?i)\s+ORDER\s+BY\s+(\w+)\s*(ASC|DESC)?\s*$`)
	splitAndRe = regexp.MustCompile(`(?i)\s+AND\s+`)

	// Clause forms, tried in priority order. First match wins.
	inRe       = regexp.MustCompile(`(?i)^(\w+)\s+(NOT\s+)?IN\s*\(([^)]+)\)$`)
	nullRe     = regexp.MustCompile(`(?i)^(\w+)\s+IS\s+(NOT\s+)?NULL$`)
	emptyRe    = regexp.MustCompile(`(?i)^(\w+)\s+IS\s+(NOT\s+)?EMPTY$`)
	containsRe = regexp.MustCompile(`(?i)^(\w+)\s+~\s+["']?([^"']+)["']?$`)
	compareRe  = regexp.MustCompile(`(?i)^(\w+)\s*(!=|>=|<=|=|>|<)\s*["']?([^"']+)["']?$`)
)

// Parse parses a structured query string into conditions plus an
// optional ordering directive. The remainder after stripping ORDER BY
// is split on the literal AND connector, which is why nested boolean
// logic and OR are unsupported.
func Parse(text string) (Query, error) {
	var q Query

	if m := orderByRe.FindStringSubmatchIndex(text); m != nil {
		groups := orderByRe.FindStringSubmatch(text)
		q.OrderBy = &OrderBy{
			Field:      strings.ToLower(groups[1]),
			Descending: strings.EqualFold(groups[2], "DESC"),
		}
		text = text[:m[0]]
	}

	for _, clause := range splitAndRe.Split(text, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		cond, err := parseClause(clause)
		if err != nil {
			return Query{}, err
		}
		q.Conditions = append(q.Conditions, cond)
	}

	return q, nil
}

func parseClause(clause string) (Condition, error) {
	if m := inRe.FindStringSubmatch(clause); m != nil {
		op := OpIn
		if m[2] != "" {
			op = OpNotIn
		}
		var values []string
		for _, v := range strings.Split(m[3], ",") {
			values = append(values, strings.Trim(strings.TrimSpace(v), `"'`))
		}
		return Condition{Field: strings.ToLower(m[1]), Op: op, Values: values}, nil
	}

	if m := nullRe.FindStringSubmatch(clause); m != nil {
		op := OpIsNull
		if m[2] != "" {
			op = OpIsNotNull
		}
		return Condition{Field: strings.ToLower(m[1]), Op: op}, nil
	}

	if m := emptyRe.FindStringSubmatch(clause); m != nil {
		op := OpIsEmpty
		if m[2] != "" {
			op = OpIsNotEmpty
		}
		return Condition{Field: strings.ToLower(m[1]), Op: op}, nil
	}

	if m := containsRe.FindStringSubmatch(clause); m != nil {
		return Condition{Field: strings.ToLower(m[1]), Op: OpContains, Value: strings.TrimSpace(m[2])}, nil
	}

	if m := compareRe.FindStringSubmatch(clause); m != nil {
		return Condition{Field: strings.ToLower(m[1]), Op: Operator(m[2]), Value: strings.TrimSpace(m[3])}, nil
	}

	return Condition{}, &ParseError{Clause: clause}
}
