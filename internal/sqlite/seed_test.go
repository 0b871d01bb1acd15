package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

const seedFixture = `vocabulary:
  statuses: ["To Do", "Done"]
  priorities: ["Critical", "Low"]
  issue_types: ["Bug", "Task"]
  projects: ["FIN"]

tickets:
  - key: FIN-1
    status: Done
    priority: Low
    type: Task
    summary: Rotate signing keys
    assignee:
      account_id: tom
      display_name: Tom Novak
    labels: [security]
    created: 2026-06-28T14:00:00Z
    updated: 2026-07-15T10:20:00Z
    comments:
      - author:
          account_id: aki
          display_name: Aki Tanaka
        body: Old key retired.
        created: 2026-07-15T10:15:00Z
  - key: FIN-2
    status: To Do
    priority: Critical
    type: Bug
    summary: Export job hangs on empty quarter
    created: 2026-07-20T08:30:00Z
    updated: 2026-07-20T08:30:00Z
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadDataset verifies YAML parsing of tickets and vocabulary.
func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(writeSeed(t, seedFixture))
	require.NoError(t, err)
	require.Len(t, ds.Tickets, 2)
	require.Equal(t, []ticket.Status{"To Do", "Done"}, ds.Vocabulary.Statuses)
	require.Equal(t, []string{"FIN"}, ds.Vocabulary.Projects)

	first := ds.Tickets[0]
	require.Equal(t, "FIN-1", first.Key)
	require.Equal(t, ticket.StatusToDo, ds.Tickets[1].Status)
	require.NotNil(t, first.Assignee)
	require.Equal(t, "Tom Novak", first.Assignee.DisplayName)
	require.Len(t, first.Comments, 1)
	require.Equal(t, "Old key retired.", first.Comments[0].Body)
}

// TestLoadDatasetDefaultVocabulary verifies a dataset without a
// vocabulary block falls back to the defaults.
func TestLoadDatasetDefaultVocabulary(t *testing.T) {
	ds, err := LoadDataset(writeSeed(t, `tickets:
  - key: FIN-1
    status: Done
    priority: Low
    type: Task
    summary: Rotate signing keys
    created: 2026-06-28T14:00:00Z
    updated: 2026-07-15T10:20:00Z
`))
	require.NoError(t, err)
	require.Equal(t, ticket.DefaultVocabulary().Statuses, ds.Vocabulary.Statuses)
}

// TestImportDataset verifies the seed lands in the store and loads
// back as a usable universe.
func TestImportDataset(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	ds, err := LoadDataset(writeSeed(t, seedFixture))
	require.NoError(t, err)
	require.NoError(t, ImportDataset(ctx, repo, ds))

	tickets, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	vocab, err := repo.LoadVocabulary(ctx)
	require.NoError(t, err)
	require.Equal(t, ds.Vocabulary.Projects, vocab.Projects)

	u, err := ticket.NewUniverse(tickets, vocab)
	require.NoError(t, err)
	require.Equal(t, 2, u.Len())
	require.True(t, u.Contains("FIN-2"))
}
