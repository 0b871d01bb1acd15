package jql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

func testTickets(t *testing.T) []*ticket.Ticket {
	t.Helper()
	now := time.Now().UTC()
	resolution := "Fixed"
	sprint := "Sprint 42"
	return []*ticket.Ticket{
		{
			Key:      "FIN-1",
			Status:   ticket.StatusInProgress,
			Priority: ticket.PriorityHigh,
			Type:     ticket.TypeBug,
			Summary:  "Rounding drift on split payments",
			Assignee: &ticket.Person{AccountID: "sarah", DisplayName: "Sarah Chen"},
			Labels:   []string{"billing"},
			Sprint:   &sprint,
			Created:  now.AddDate(0, 0, -40),
			Updated:  now.AddDate(0, 0, -2),
		},
		{
			Key:      "FIN-2",
			Status:   ticket.StatusToDo,
			Priority: ticket.PriorityCritical,
			Type:     ticket.TypeBug,
			Summary:  "Export job hangs on empty quarter",
			Labels:   []string{"billing", "quarterly-close"},
			Created:  now.AddDate(0, 0, -5),
			Updated:  now.AddDate(0, 0, -5),
		},
		{
			Key:        "SEC-1",
			Status:     ticket.StatusDone,
			Priority:   ticket.PriorityMedium,
			Type:       ticket.TypeTask,
			Summary:    "Rotate signing keys",
			Assignee:   &ticket.Person{AccountID: "tom", DisplayName: "Tom Novak"},
			Resolution: &resolution,
			Created:    now.AddDate(0, 0, -60),
			Updated:    now.AddDate(0, 0, -30),
		},
	}
}

func mustParse(t *testing.T, text string) Query {
	t.Helper()
	q, err := Parse(text)
	require.NoError(t, err)
	return q
}

func keys(tickets []*ticket.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, tk := range tickets {
		out = append(out, tk.Key)
	}
	return out
}

// TestEvaluateStatusEquals verifies case-insensitive scalar equality.
func TestEvaluateStatusEquals(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `status = 'in progress'`))
	require.Equal(t, []string{"FIN-1"}, keys(got))
}

// TestEvaluateAssigneeIsNull verifies the presence operator on a
// nullable field.
func TestEvaluateAssigneeIsNull(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `assignee IS NULL`))
	require.Equal(t, []string{"FIN-2"}, keys(got))

	got = Evaluate(testTickets(t), mustParse(t, `assignee IS NOT NULL`))
	require.Equal(t, []string{"FIN-1", "SEC-1"}, keys(got))
}

// TestEvaluateLabelMembership verifies set fields use exact-element
// membership for equality and any-overlap for IN.
func TestEvaluateLabelMembership(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `labels = billing`))
	require.Equal(t, []string{"FIN-1", "FIN-2"}, keys(got))

	// Equality on a set is exact membership, never substring.
	got = Evaluate(testTickets(t), mustParse(t, `labels = bill`))
	require.Empty(t, got)

	got = Evaluate(testTickets(t), mustParse(t, `labels IN (quarterly-close, missing)`))
	require.Equal(t, []string{"FIN-2"}, keys(got))

	got = Evaluate(testTickets(t), mustParse(t, `labels IS EMPTY`))
	require.Equal(t, []string{"SEC-1"}, keys(got))
}

// TestEvaluateContains verifies per-element substring matching.
func TestEvaluateContains(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `summary ~ "export"`))
	require.Equal(t, []string{"FIN-2"}, keys(got))

	got = Evaluate(testTickets(t), mustParse(t, `labels ~ quarterly`))
	require.Equal(t, []string{"FIN-2"}, keys(got))
}

// TestEvaluateUnknownFieldIsNoOp verifies that a condition on an
// unrecognized field never excludes records.
func TestEvaluateUnknownFieldIsNoOp(t *testing.T) {
	all := testTickets(t)
	got := Evaluate(all, mustParse(t, `customfield = whatever`))
	require.Equal(t, keys(all), keys(got))
}

// TestEvaluateRelativeDates verifies -Nd offsets against created.
func TestEvaluateRelativeDates(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `created > -30d`))
	require.Equal(t, []string{"FIN-2"}, keys(got))

	got = Evaluate(testTickets(t), mustParse(t, `created < -30d`))
	require.Equal(t, []string{"FIN-1", "SEC-1"}, keys(got))
}

// TestEvaluateUnparseableDateIsNoOp verifies that a bad date operand
// never excludes records.
func TestEvaluateUnparseableDateIsNoOp(t *testing.T) {
	all := testTickets(t)
	got := Evaluate(all, mustParse(t, `created > someday`))
	require.Equal(t, keys(all), keys(got))

	// Months are not a supported relative unit.
	got = Evaluate(all, mustParse(t, `created > -3m`))
	require.Equal(t, keys(all), keys(got))
}

// TestEvaluateProjectField verifies the project is derived from the
// key prefix.
func TestEvaluateProjectField(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `project = SEC`))
	require.Equal(t, []string{"SEC-1"}, keys(got))
}

// TestOrderByPriority verifies severity-rank ordering in both
// directions, with input order preserved on ties.
func TestOrderByPriority(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `project IN (FIN, SEC) ORDER BY priority ASC`))
	require.Equal(t, []string{"FIN-2", "FIN-1", "SEC-1"}, keys(got))

	got = Evaluate(testTickets(t), mustParse(t, `project IN (FIN, SEC) ORDER BY priority DESC`))
	require.Equal(t, []string{"SEC-1", "FIN-1", "FIN-2"}, keys(got))
}

// TestOrderByCreated verifies chronological ordering.
func TestOrderByCreated(t *testing.T) {
	got := Evaluate(testTickets(t), mustParse(t, `labels IS NOT EMPTY ORDER BY created DESC`))
	require.Equal(t, []string{"FIN-2", "FIN-1"}, keys(got))
}

// TestParseTimeOperandLayouts verifies the accepted absolute formats.
func TestParseTimeOperandLayouts(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for _, value := range []string{
		"2026-01-02T15:04:05Z",
		"2026-01-02T15:04:05",
		"2026-01-02",
		"2026/01/02",
		"02/01/2026",
	} {
		_, ok := parseTimeOperand(value, now)
		require.True(t, ok, value)
	}

	at, ok := parseTimeOperand("-2w", now)
	require.True(t, ok)
	require.Equal(t, now.AddDate(0, 0, -14), at)

	_, ok = parseTimeOperand("not a date", now)
	require.False(t, ok)
}

// TestEngineExecute verifies the engine surface: totals on success and
// a typed error on a malformed query.
func TestEngineExecute(t *testing.T) {
	universe, err := ticket.NewUniverse(testTickets(t), ticket.DefaultVocabulary())
	require.NoError(t, err)
	engine := NewEngine(universe, nil)

	res, err := engine.Execute(`type = Bug`)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, []string{"FIN-1", "FIN-2"}, keys(res.Issues))

	_, err = engine.Execute(`status something strange`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
