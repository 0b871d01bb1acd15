// Package validate is the final gate before an answer reaches the
// caller. It extracts claims from generated text and checks every one
// against the records that were actually retrieved; anything beyond
// them fails validation. The validator gates answers and never
// rewrites them; on failure the orchestrator falls back to Render.
package validate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// CountMismatch records a numeric claim that disagrees with the
// retrieved-set size.
type CountMismatch struct {
	Claimed int `json:"claimed"`
	Actual  int `json:"actual"`
}

// FieldMismatch records a field-value claim that disagrees with the
// retrieved record.
type FieldMismatch struct {
	Key     string `json:"key"`
	Field   string `json:"field"`
	Claimed string `json:"claimed"`
	Actual  string `json:"actual"`
}

// Outcome is the result of validating one answer. Valid is true only
// when zero hard failures occurred; warnings never fail validation.
type Outcome struct {
	Valid           bool
	Errors          []string
	Warnings        []string
	UnknownKeys     []string
	CountMismatches []CountMismatch
	FieldMismatches []FieldMismatch
}

var (
	issueKeyRe = regexp.MustCompile(`\b[A-Z]{2,10}-\d{1,6}\b`)

	countRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s+issues?\b`),
		regexp.MustCompile(`(\d+)\s+tickets?\b`),
		regexp.MustCompile(`there\s+are\s+(\d+)`),
		regexp.MustCompile(`found\s+(\d+)`),
		regexp.MustCompile(`total\s+of\s+(\d+)`),
	}

	assigneeClaimSuffix = `.*?assigned\s+to\s+([A-Za-z\s]+?)(?:\.|,|$)`
)

// Validator checks generated answers against the record universe and a
// per-query retrieved set.
type Validator struct {
	universe *ticket.Universe
	logger   *slog.Logger
}

// NewValidator creates a validator over the record universe.
func NewValidator(universe *ticket.Universe, logger *slog.Logger) *Validator {
	return &Validator{universe: universe, logger: logger}
}

// Validate applies every claim check independently and aggregates the
// results. A key that exists nowhere in the universe is a hard
// failure; a real key missing from the retrieved set is a soft warning
// only, since the mention may be coincidental text.
func (v *Validator) Validate(answer string, retrieved []*ticket.Ticket) Outcome {
	out := Outcome{}

	retrievedByKey := make(map[string]*ticket.Ticket, len(retrieved))
	for _, t := range retrieved {
		retrievedByKey[t.Key] = t
	}

	mentioned := uniqueKeys(answer)
	for _, key := range mentioned {
		if !v.universe.Contains(key) {
			out.UnknownKeys = append(out.UnknownKeys, key)
			out.Errors = append(out.Errors, fmt.Sprintf("hallucinated issue key: %s does not exist", key))
		} else if _, ok := retrievedByKey[key]; !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("issue %s mentioned but not in retrieved results", key))
		}
	}

	v.checkCounts(answer, len(retrieved), &out)
	v.checkStatusClaims(answer, mentioned, retrievedByKey, &out)
	v.checkPriorityClaims(answer, mentioned, retrievedByKey, &out)
	v.checkAssigneeClaims(answer, mentioned, retrievedByKey, &out)

	out.Valid = len(out.Errors) == 0
	if v.logger != nil && !out.Valid {
		v.logger.Warn("answer failed validation", "errors", len(out.Errors), "warnings", len(out.Warnings))
	}
	return out
}

func uniqueKeys(text string) []string {
	var keys []string
	seen := map[string]struct{}{}
	for _, key := range issueKeyRe.FindAllString(text, -1) {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func (v *Validator) checkCounts(answer string, actual int, out *Outcome) {
	lower := strings.ToLower(answer)
	for _, re := range countRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			claimed, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if claimed != actual {
				out.Errors = append(out.Errors,
					fmt.Sprintf("count mismatch: answer claims %d but retrieved %d", claimed, actual))
				out.CountMismatches = append(out.CountMismatches, CountMismatch{Claimed: claimed, Actual: actual})
			}
		}
	}
}

// checkStatusClaims flags any known status value that appears near a
// mentioned key but disagrees with the record's actual status. Claims
// are matched within a line; the pattern does not cross newlines.
func (v *Validator) checkStatusClaims(answer string, mentioned []string, retrieved map[string]*ticket.Ticket, out *Outcome) {
	for _, key := range mentioned {
		rec, ok := retrieved[key]
		if !ok {
			continue
		}
		for _, status := range v.universe.Vocabulary().Statuses {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `.*?\b` + regexp.QuoteMeta(string(status)) + `\b`)
			if re.MatchString(answer) && !strings.EqualFold(string(status), string(rec.Status)) {
				out.Errors = append(out.Errors,
					fmt.Sprintf("status mismatch for %s: claimed '%s' but actual is '%s'", key, status, rec.Status))
				out.FieldMismatches = append(out.FieldMismatches,
					FieldMismatch{Key: key, Field: "status", Claimed: string(status), Actual: string(rec.Status)})
			}
		}
	}
}

func (v *Validator) checkPriorityClaims(answer string, mentioned []string, retrieved map[string]*ticket.Ticket, out *Outcome) {
	for _, key := range mentioned {
		rec, ok := retrieved[key]
		if !ok {
			continue
		}
		for _, priority := range v.universe.Vocabulary().Priorities {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `.*?\b` + regexp.QuoteMeta(string(priority)) + `\b`)
			if re.MatchString(answer) && !strings.EqualFold(string(priority), string(rec.Priority)) {
				out.Errors = append(out.Errors,
					fmt.Sprintf("priority mismatch for %s: claimed '%s' but actual is '%s'", key, priority, rec.Priority))
				out.FieldMismatches = append(out.FieldMismatches,
					FieldMismatch{Key: key, Field: "priority", Claimed: string(priority), Actual: string(rec.Priority)})
			}
		}
	}
}

func (v *Validator) checkAssigneeClaims(answer string, mentioned []string, retrieved map[string]*ticket.Ticket, out *Outcome) {
	for _, key := range mentioned {
		rec, ok := retrieved[key]
		if !ok {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + assigneeClaimSuffix)
		m := re.FindStringSubmatch(answer)
		if m == nil {
			continue
		}
		claimed := strings.TrimSpace(m[1])
		switch {
		case rec.Assignee == nil:
			out.Errors = append(out.Errors,
				fmt.Sprintf("assignee mismatch for %s: claimed '%s' but issue is unassigned", key, claimed))
			out.FieldMismatches = append(out.FieldMismatches,
				FieldMismatch{Key: key, Field: "assignee", Claimed: claimed, Actual: "Unassigned"})
		case !strings.Contains(strings.ToLower(rec.Assignee.DisplayName), strings.ToLower(claimed)):
			out.Errors = append(out.Errors,
				fmt.Sprintf("assignee mismatch for %s: claimed '%s' but actual is '%s'", key, claimed, rec.Assignee.DisplayName))
			out.FieldMismatches = append(out.FieldMismatches,
				FieldMismatch{Key: key, Field: "assignee", Claimed: claimed, Actual: rec.Assignee.DisplayName})
		}
	}
}
