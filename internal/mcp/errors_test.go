package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/access"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/jql"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/search"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// TestMapError verifies domain errors map to stable API codes.
func TestMapError(t *testing.T) {
	apiErr := MapError(fmt.Errorf("%w: FIN-999", ticket.ErrIssueNotFound))
	require.NotNil(t, apiErr)
	require.Equal(t, "ISSUE_NOT_FOUND", apiErr.Code)

	apiErr = MapError(&jql.ParseError{Clause: "status something"})
	require.NotNil(t, apiErr)
	require.Equal(t, "INVALID_QUERY", apiErr.Code)
	require.Contains(t, apiErr.Message, "status something")

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("unrelated")))
}

// TestToolErrorPassthrough verifies unmapped errors surface unchanged.
func TestToolErrorPassthrough(t *testing.T) {
	plain := errors.New("boom")
	require.Equal(t, plain, toolError(plain))

	wrapped := toolError(&jql.ParseError{Clause: "x y z"})
	var apiErr *APIError
	require.ErrorAs(t, wrapped, &apiErr)
}

// TestActingUser verifies explicit tool arguments override the
// request identity.
func TestActingUser(t *testing.T) {
	ctx := context.WithValue(context.Background(), userIDKey, "header.user")
	require.Equal(t, "header.user", actingUser(ctx, ""))
	require.Equal(t, "explicit.user", actingUser(ctx, "explicit.user"))
	require.Empty(t, actingUser(context.Background(), ""))
}

// TestBuildSearchOutput verifies ranked order and scores survive
// permission filtering while hidden records disappear.
func TestBuildSearchOutput(t *testing.T) {
	now := time.Now().UTC()
	tickets := []*ticket.Ticket{
		{Key: "SEC-1", Status: ticket.StatusInProgress, Priority: ticket.PriorityCritical, Type: ticket.TypeBug, Summary: "OAuth login fails", Created: now, Updated: now},
		{Key: "FIN-1", Status: ticket.StatusDone, Priority: ticket.PriorityLow, Type: ticket.TypeStory, Summary: "CSV download", Created: now, Updated: now},
	}
	u, err := ticket.NewUniverse(tickets, ticket.DefaultVocabulary())
	require.NoError(t, err)

	table := access.NewTable(map[string]access.Profile{
		"fin.only": {Projects: []string{"FIN"}, ViewAllIssues: true, ViewComments: true},
	})
	svcs := Services{
		Filter:   access.NewFilter(table, nil),
		Universe: u,
	}

	result := search.Result{
		Issues: tickets,
		Scores: map[string]float64{"SEC-1": 0.9, "FIN-1": 0.4},
	}

	out := buildSearchOutput(svcs, result, "fin.only")
	require.Equal(t, 1, out.Total)
	require.Equal(t, 1, out.Hidden)
	require.Len(t, out.Hits, 1)
	require.Equal(t, "FIN-1", out.Hits[0].Key)
	require.InDelta(t, 0.4, out.Hits[0].Score, 0.0001)
}
