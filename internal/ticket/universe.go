package ticket

import (
	"fmt"
	"sort"
)

// Vocabulary enumerates the valid field values for the dataset. The
// classifier and validator treat these as closed sets.
type Vocabulary struct {
	Statuses   []Status    `json:"statuses" yaml:"statuses"`
	Priorities []Priority  `json:"priorities" yaml:"priorities"`
	Types      []IssueType `json:"issue_types" yaml:"issue_types"`
	Projects   []string    `json:"projects" yaml:"projects"`
}

// DefaultVocabulary returns the vocabulary used when the dataset does
// not carry its own.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Statuses:   []Status{StatusToDo, StatusInProgress, StatusInReview, StatusDone, StatusBlocked},
		Priorities: []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow},
		Types:      []IssueType{TypeBug, TypeStory, TypeTask, TypeSpike, TypeEpic},
		Projects:   nil,
	}
}

// Universe is the full backing collection of tickets plus the value
// vocabulary. It is immutable after construction; a dataset reload
// builds a fresh universe.
type Universe struct {
	tickets []*Ticket
	byKey   map[string]*Ticket
	vocab   Vocabulary
}

// NewUniverse builds a universe from tickets in collection order.
func NewUniverse(tickets []*Ticket, vocab Vocabulary) (*Universe, error) {
	byKey := make(map[string]*Ticket, len(tickets))
	for _, t := range tickets {
		if _, exists := byKey[t.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, t.Key)
		}
		byKey[t.Key] = t
	}
	return &Universe{
		tickets: append([]*Ticket(nil), tickets...),
		byKey:   byKey,
		vocab:   vocab,
	}, nil
}

// Tickets returns all tickets in collection order. Callers must not
// mutate the returned tickets; Clone before editing.
func (u *Universe) Tickets() []*Ticket {
	return append([]*Ticket(nil), u.tickets...)
}

// Get returns the ticket for a key.
func (u *Universe) Get(key string) (*Ticket, bool) {
	t, ok := u.byKey[key]
	return t, ok
}

// Contains reports whether a key exists anywhere in the universe.
func (u *Universe) Contains(key string) bool {
	_, ok := u.byKey[key]
	return ok
}

// Len returns the number of tickets.
func (u *Universe) Len() int {
	return len(u.tickets)
}

// Vocabulary returns the closed value sets for the dataset.
func (u *Universe) Vocabulary() Vocabulary {
	return u.vocab
}

// Assignees returns the sorted distinct assignee display names.
func (u *Universe) Assignees() []string {
	seen := map[string]struct{}{}
	for _, t := range u.tickets {
		if t.Assignee != nil {
			seen[t.Assignee.DisplayName] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Labels returns the sorted distinct labels across all tickets.
func (u *Universe) Labels() []string {
	seen := map[string]struct{}{}
	for _, t := range u.tickets {
		for _, label := range t.Labels {
			seen[label] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Components returns the sorted distinct components across all tickets.
func (u *Universe) Components() []string {
	seen := map[string]struct{}{}
	for _, t := range u.tickets {
		for _, component := range t.Components {
			seen[component] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
