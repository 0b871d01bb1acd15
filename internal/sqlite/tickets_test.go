package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

func sampleTicket() *ticket.Ticket {
	created := time.Date(2026, 7, 2, 9, 15, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 11, 14, 2, 0, 0, time.UTC)
	sprint := "Sprint 42"
	return &ticket.Ticket{
		Key:         "FIN-1",
		Status:      ticket.StatusInProgress,
		Priority:    ticket.PriorityHigh,
		Type:        ticket.TypeBug,
		Summary:     "Rounding drift on split payments",
		Description: "Rounding happens per share instead of once.",
		Assignee:    &ticket.Person{AccountID: "sarah", DisplayName: "Sarah Chen"},
		Reporter:    &ticket.Person{AccountID: "mike", DisplayName: "Mike Ross"},
		Labels:      []string{"billing"},
		Components:  []string{"payments"},
		Sprint:      &sprint,
		Created:     created,
		Updated:     updated,
		Comments: []ticket.Comment{
			{
				Author:  &ticket.Person{AccountID: "sarah", DisplayName: "Sarah Chen"},
				Body:    "Reproduced on staging.",
				Created: time.Date(2026, 7, 3, 10, 0, 0, 0, time.UTC),
			},
		},
	}
}

// TestTicketRoundTrip verifies a ticket with comments, labels and
// optional fields survives insert and load intact.
func TestTicketRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	want := sampleTicket()
	require.NoError(t, repo.Insert(ctx, want))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec := got[0]
	require.Equal(t, want.Key, rec.Key)
	require.Equal(t, want.Status, rec.Status)
	require.Equal(t, want.Priority, rec.Priority)
	require.Equal(t, want.Type, rec.Type)
	require.Equal(t, want.Summary, rec.Summary)
	require.Equal(t, want.Description, rec.Description)
	require.Equal(t, want.Labels, rec.Labels)
	require.Equal(t, want.Components, rec.Components)
	require.NotNil(t, rec.Assignee)
	require.Equal(t, "Sarah Chen", rec.Assignee.DisplayName)
	require.NotNil(t, rec.Reporter)
	require.Equal(t, "Mike Ross", rec.Reporter.DisplayName)
	require.Nil(t, rec.Resolution)
	require.NotNil(t, rec.Sprint)
	require.Equal(t, "Sprint 42", *rec.Sprint)
	require.True(t, want.Created.Equal(rec.Created))
	require.True(t, want.Updated.Equal(rec.Updated))

	require.Len(t, rec.Comments, 1)
	require.Equal(t, "Reproduced on staging.", rec.Comments[0].Body)
	require.NotNil(t, rec.Comments[0].Author)
	require.Equal(t, "Sarah Chen", rec.Comments[0].Author.DisplayName)
}

// TestTicketNullableFields verifies unset optional fields stay nil.
func TestTicketNullableFields(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	created := time.Date(2026, 7, 20, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, &ticket.Ticket{
		Key:      "FIN-2",
		Status:   ticket.StatusToDo,
		Priority: ticket.PriorityCritical,
		Type:     ticket.TypeBug,
		Summary:  "Export job hangs on empty quarter",
		Created:  created,
		Updated:  created,
	}))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].Assignee)
	require.Nil(t, got[0].Reporter)
	require.Nil(t, got[0].Resolution)
	require.Nil(t, got[0].Sprint)
	require.Empty(t, got[0].Labels)
	require.Empty(t, got[0].Comments)
}

// TestTicketDuplicateKey verifies the typed duplicate error.
func TestTicketDuplicateKey(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleTicket()))
	err := repo.Insert(ctx, sampleTicket())
	require.ErrorIs(t, err, ticket.ErrDuplicateKey)
}

// TestTicketCount verifies the count query.
func TestTicketCount(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.Insert(ctx, sampleTicket()))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// TestVocabularyRoundTrip verifies save and ordered load.
func TestVocabularyRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	want := ticket.DefaultVocabulary()
	want.Projects = []string{"FIN", "SEC"}
	require.NoError(t, repo.SaveVocabulary(ctx, want))

	got, err := repo.LoadVocabulary(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Statuses, got.Statuses)
	require.Equal(t, want.Priorities, got.Priorities)
	require.Equal(t, want.Types, got.Types)
	require.Equal(t, want.Projects, got.Projects)

	// Saving again replaces, never appends.
	require.NoError(t, repo.SaveVocabulary(ctx, want))
	got, err = repo.LoadVocabulary(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Statuses, got.Statuses)
}
