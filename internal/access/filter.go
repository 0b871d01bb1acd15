// Package access enforces user-scoped visibility over retrieved
// tickets. Filtering happens after retrieval and before any answer
// text is generated: an answer can only leak what the generator saw.
package access

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// FilterResult reports the outcome of one filtering pass. Denied maps
// issue keys to machine-readable reason codes for audit and debugging
// only; it is never shown to the end user.
type FilterResult struct {
	Allowed       []*ticket.Ticket
	Denied        map[string]string
	TotalBefore   int
	FilteredCount int
	UserID        string
}

// Filter applies permission profiles to retrieved tickets.
type Filter struct {
	table  *Table
	logger *slog.Logger
}

// NewFilter creates a filter over a permission table.
func NewFilter(table *Table, logger *slog.Logger) *Filter {
	return &Filter{table: table, logger: logger}
}

// Apply removes tickets the user may not see and redacts comments the
// user may not view. Allowed tickets are clones; the input is never
// mutated. Checks run in fixed order and short-circuit on the first
// failure, recording its reason code.
func (f *Filter) Apply(tickets []*ticket.Ticket, userID string) FilterResult {
	profile, _ := f.table.Profile(userID)

	result := FilterResult{
		Denied:      map[string]string{},
		TotalBefore: len(tickets),
		UserID:      userID,
	}

	projects := map[string]struct{}{}
	for _, p := range profile.Projects {
		projects[p] = struct{}{}
	}
	components := map[string]struct{}{}
	for _, c := range profile.ViewableComponents {
		components[c] = struct{}{}
	}
	hidden := map[string]struct{}{}
	for _, l := range profile.HiddenLabels {
		hidden[l] = struct{}{}
	}
	_, hideAllLabeled := hidden[WildcardLabel]

	for _, t := range tickets {
		if reason := deny(t, profile, projects, components, hidden, hideAllLabeled); reason != "" {
			result.Denied[t.Key] = reason
			continue
		}

		allowed := t.Clone()
		if !profile.ViewComments {
			allowed.Comments = []ticket.Comment{}
			allowed.CommentsRedacted = true
		}
		result.Allowed = append(result.Allowed, allowed)
	}

	result.FilteredCount = result.TotalBefore - len(result.Allowed)
	if f.logger != nil && result.FilteredCount > 0 {
		f.logger.Info("access filter denied records",
			"user_id", userID, "denied", result.FilteredCount, "allowed", len(result.Allowed))
	}
	return result
}

func deny(t *ticket.Ticket, profile Profile, projects, components, hidden map[string]struct{}, hideAllLabeled bool) string {
	project := t.ProjectKey()
	if _, ok := projects[project]; !ok {
		return "no_project_access:" + project
	}

	if !profile.ViewAllIssues {
		overlap := false
		for _, c := range t.Components {
			if _, ok := components[c]; ok {
				overlap = true
				break
			}
		}
		if !overlap {
			return "no_component_access"
		}
	}

	if hideAllLabeled {
		if len(t.Labels) > 0 {
			return "all_labels_restricted"
		}
	} else {
		var blocked []string
		for _, l := range t.Labels {
			if _, ok := hidden[l]; ok {
				blocked = append(blocked, l)
			}
		}
		if len(blocked) > 0 {
			return "restricted_labels:" + strings.Join(blocked, ",")
		}
	}

	return ""
}

// CheckAccess probes visibility of a single ticket for a user.
func (f *Filter) CheckAccess(t *ticket.Ticket, userID string) (bool, string) {
	result := f.Apply([]*ticket.Ticket{t}, userID)
	if len(result.Allowed) > 0 {
		return true, "allowed"
	}
	return false, result.Denied[t.Key]
}

// Summary returns the diagnostic permission view for a user.
func (f *Filter) Summary(userID string) ProfileSummary {
	profile, exists := f.table.Profile(userID)
	return ProfileSummary{
		UserID:        userID,
		Exists:        exists,
		Projects:      profile.Projects,
		ViewAllIssues: profile.ViewAllIssues,
		ViewComments:  profile.ViewComments,
		HiddenLabels:  profile.HiddenLabels,
	}
}

// String renders a short description of the result for logs.
func (r FilterResult) String() string {
	return fmt.Sprintf("allowed=%d denied=%d user=%s", len(r.Allowed), r.FilteredCount, r.UserID)
}
