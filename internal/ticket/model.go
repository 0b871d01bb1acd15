package ticket

import (
	"strings"
	"time"
)

// Status is the workflow status of a ticket.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusDone       Status = "Done"
	StatusBlocked    Status = "Blocked"
)

// Priority is the severity level of a ticket. Critical sorts first.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Rank returns the sort rank of a priority. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// IssueType is the work item category of a ticket.
type IssueType string

const (
	TypeBug   IssueType = "Bug"
	TypeStory IssueType = "Story"
	TypeTask  IssueType = "Task"
	TypeSpike IssueType = "Spike"
	TypeEpic  IssueType = "Epic"
)

// Person identifies a user referenced by a ticket.
type Person struct {
	AccountID   string `json:"account_id" yaml:"account_id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Comment is one entry in a ticket's comment thread.
type Comment struct {
	Author  *Person   `json:"author,omitempty" yaml:"author,omitempty"`
	Body    string    `json:"body" yaml:"body"`
	Created time.Time `json:"created" yaml:"created"`
}

// Ticket is a read-only snapshot of one tracked issue. The key uniquely
// determines all other fields.
type Ticket struct {
	Key              string    `json:"key" yaml:"key"`
	Status           Status    `json:"status" yaml:"status"`
	Priority         Priority  `json:"priority" yaml:"priority"`
	Type             IssueType `json:"type" yaml:"type"`
	Summary          string    `json:"summary" yaml:"summary"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	Assignee         *Person   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter         *Person   `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Labels           []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Components       []string  `json:"components,omitempty" yaml:"components,omitempty"`
	Created          time.Time `json:"created" yaml:"created"`
	Updated          time.Time `json:"updated" yaml:"updated"`
	Comments         []Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
	Resolution       *string   `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Sprint           *string   `json:"sprint,omitempty" yaml:"sprint,omitempty"`
	CommentsRedacted bool      `json:"comments_redacted,omitempty" yaml:"-"`
}

// ProjectKey derives the project code from the ticket key prefix.
func (t *Ticket) ProjectKey() string {
	if idx := strings.Index(t.Key, "-"); idx > 0 {
		return t.Key[:idx]
	}
	return t.Key
}

// Clone returns a deep copy of the ticket. Filtering never mutates the
// shared universe, so redaction always operates on a clone.
func (t *Ticket) Clone() *Ticket {
	dup := *t
	dup.Labels = append([]string(nil), t.Labels...)
	dup.Components = append([]string(nil), t.Components...)
	dup.Comments = make([]Comment, len(t.Comments))
	for i, c := range t.Comments {
		dup.Comments[i] = c
		if c.Author != nil {
			author := *c.Author
			dup.Comments[i].Author = &author
		}
	}
	if t.Assignee != nil {
		assignee := *t.Assignee
		dup.Assignee = &assignee
	}
	if t.Reporter != nil {
		reporter := *t.Reporter
		dup.Reporter = &reporter
	}
	if t.Resolution != nil {
		resolution := *t.Resolution
		dup.Resolution = &resolution
	}
	if t.Sprint != nil {
		sprint := *t.Sprint
		dup.Sprint = &sprint
	}
	return &dup
}
