package validate

import (
	"fmt"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// Kind selects the presentation for rendered record text.
type Kind string

const (
	KindCount  Kind = "count"
	KindList   Kind = "list"
	KindDetail Kind = "detail"
)

// Render produces deterministic text from a record set. It is the safe
// fallback when generation fails validation: every field comes
// verbatim from the records and every count equals the set size, so
// the output always passes Validate against the same records.
func (v *Validator) Render(records []*ticket.Ticket, kind Kind) string {
	if len(records) == 0 {
		return "No issues found matching your query."
	}

	switch kind {
	case KindCount:
		return fmt.Sprintf("Found %d issue(s) matching your query.", len(records))

	case KindDetail:
		var b strings.Builder
		for _, t := range records {
			fmt.Fprintf(&b, "**%s**: %s\n", t.Key, t.Summary)
			fmt.Fprintf(&b, "  Status: %s | Priority: %s\n", t.Status, t.Priority)
			if t.Assignee != nil {
				fmt.Fprintf(&b, "  Assignee: %s\n", t.Assignee.DisplayName)
			} else {
				b.WriteString("  Assignee: Unassigned\n")
			}
			if len(t.Labels) > 0 {
				fmt.Fprintf(&b, "  Labels: %s\n", strings.Join(t.Labels, ", "))
			}
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")

	default: // KindList
		lines := []string{fmt.Sprintf("Found %d issue(s):", len(records))}
		for _, t := range records {
			lines = append(lines, fmt.Sprintf("- %s: %s [%s]", t.Key, t.Summary, t.Status))
		}
		return strings.Join(lines, "\n")
	}
}
