package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/classify"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// Generator turns a retrieved record set into prose. Implementations
// may call out to an LLM; the orchestrator only requires plain text
// suitable for the validator, and validates whatever comes back.
type Generator interface {
	Generate(ctx context.Context, query string, issues []*ticket.Ticket, mode classify.Mode) (string, error)
}

// TemplateGenerator is the built-in deterministic summarizer used when
// no external generator is plugged in.
type TemplateGenerator struct{}

var countWords = []string{"how many", "count", "number of", "total"}

// Generate renders a templated answer: a bare count for count-intent
// queries, a bulleted list for small result sets, and a status
// breakdown plus the first five records for larger ones.
func (TemplateGenerator) Generate(_ context.Context, query string, issues []*ticket.Ticket, _ classify.Mode) (string, error) {
	if len(issues) == 0 {
		return noResultsAnswer, nil
	}

	lower := strings.ToLower(query)
	for _, w := range countWords {
		if strings.Contains(lower, w) {
			return fmt.Sprintf("There are %d issue(s) matching your query.", len(issues)), nil
		}
	}

	if len(issues) <= 5 {
		lines := []string{fmt.Sprintf("Found %d issue(s):", len(issues))}
		for _, t := range issues {
			assignee := "Unassigned"
			if t.Assignee != nil {
				assignee = t.Assignee.DisplayName
			}
			lines = append(lines, fmt.Sprintf("- **%s**: %s [%s] - %s", t.Key, t.Summary, t.Status, assignee))
		}
		return strings.Join(lines, "\n"), nil
	}

	counts := map[ticket.Status]int{}
	var order []ticket.Status
	for _, t := range issues {
		if counts[t.Status] == 0 {
			order = append(order, t.Status)
		}
		counts[t.Status]++
	}
	var parts []string
	for _, status := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[status], status))
	}

	lines := []string{fmt.Sprintf("Found %d issue(s) (%s):", len(issues), strings.Join(parts, ", "))}
	for _, t := range issues[:5] {
		lines = append(lines, fmt.Sprintf("- **%s**: %s [%s]", t.Key, t.Summary, t.Status))
	}
	lines = append(lines, fmt.Sprintf("... and %d more", len(issues)-5))
	return strings.Join(lines, "\n"), nil
}

const noResultsAnswer = "No issues found matching your query. This could mean:\n" +
	"- No issues match your criteria\n" +
	"- You may not have permission to view matching issues\n" +
	"- Try broadening your search terms"
