package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

func testVocab() ticket.Vocabulary {
	v := ticket.DefaultVocabulary()
	v.Projects = []string{"FIN", "SEC"}
	return v
}

// TestClassifyCountQuery verifies count intent with explicit filters
// routes to structured retrieval with no free-text leakage.
func TestClassifyCountQuery(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("How many critical priority issues are there?")
	require.Equal(t, ModeStructured, out.Mode)
	require.Equal(t, "priority = Critical", out.JQL)
	require.Empty(t, out.FreeText)
	require.InDelta(t, 0.95, out.Confidence, 0.001)
}

// TestClassifyStructuredFields verifies field mentions without
// conceptual phrasing route to structured retrieval.
func TestClassifyStructuredFields(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("Show bugs in FIN with status In Progress")
	require.Equal(t, ModeStructured, out.Mode)
	require.Equal(t, "project = FIN AND status = 'In Progress' AND type = Bug", out.JQL)
	require.Empty(t, out.FreeText)
}

// TestClassifyUnassigned verifies the unassigned keyword becomes an
// IS NULL clause.
func TestClassifyUnassigned(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("count of unassigned bugs")
	require.Equal(t, ModeStructured, out.Mode)
	require.Equal(t, "type = Bug AND assignee IS NULL", out.JQL)
}

// TestClassifyAssignedTo verifies assignee name extraction.
func TestClassifyAssignedTo(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("bugs assigned to Sarah Chen")
	require.Equal(t, ModeStructured, out.Mode)
	require.Equal(t, "type = Bug AND assignee = 'Sarah Chen'", out.JQL)
}

// TestClassifyFreeText verifies conceptual phrasing with no field
// mentions routes to ranked retrieval with a cleaned query.
func TestClassifyFreeText(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("What are the issues related to authentication?")
	require.Equal(t, ModeFreeText, out.Mode)
	require.Empty(t, out.JQL)
	require.NotEmpty(t, out.FreeText)
	require.NotContains(t, out.FreeText, "?")
	require.NotContains(t, out.FreeText, "What")
}

// TestClassifyHybrid verifies queries carrying both a field mention
// and conceptual phrasing route to hybrid, with the field value
// stripped from the ranking text.
func TestClassifyHybrid(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("FIN issues related to payment rounding")
	require.Equal(t, ModeHybrid, out.Mode)
	require.Equal(t, "project = FIN", out.JQL)
	require.NotContains(t, out.FreeText, "FIN")
	require.Contains(t, out.FreeText, "rounding")
}

// TestClassifyDefault verifies plain text with no signals falls back
// to ranked retrieval with the query untouched.
func TestClassifyDefault(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("payment rounding drift")
	require.Equal(t, ModeFreeText, out.Mode)
	require.Equal(t, "payment rounding drift", out.FreeText)
	require.InDelta(t, 0.6, out.Confidence, 0.001)
}

// TestClassifyTooShort verifies the trivial-length guard asks for
// clarification instead of guessing.
func TestClassifyTooShort(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("  hi ")
	require.Equal(t, ModeClarification, out.Mode)
	require.NotEmpty(t, out.Clarification)
	require.Empty(t, out.JQL)
	require.Empty(t, out.FreeText)
}

// TestClassifyUnknownProjectIgnored verifies uppercase tokens outside
// the vocabulary are not treated as projects.
func TestClassifyUnknownProjectIgnored(t *testing.T) {
	c := NewClassifier(testVocab(), nil)

	out := c.Classify("ABC blocked tickets")
	require.Equal(t, ModeStructured, out.Mode)
	require.Equal(t, "status = 'Blocked'", out.JQL)
}

// TestBuildJQLFieldOrder verifies clause order is fixed regardless of
// mention order in the query.
func TestBuildJQLFieldOrder(t *testing.T) {
	m := fieldMentions{
		project:   "FIN",
		status:    ticket.StatusToDo,
		priority:  ticket.PriorityHigh,
		issueType: ticket.TypeBug,
	}
	require.Equal(t, "project = FIN AND status = 'To Do' AND priority = High AND type = Bug", m.buildJQL())
}
