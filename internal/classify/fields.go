package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// fieldMentions holds the structured-field values extracted from a
// query. Fields left empty were not mentioned.
type fieldMentions struct {
	project    string
	status     ticket.Status
	priority   ticket.Priority
	issueType  ticket.IssueType
	assignee   string
	unassigned bool
	label      string
}

func (m fieldMentions) any() bool {
	return m.project != "" || m.status != "" || m.priority != "" ||
		m.issueType != "" || m.assignee != "" || m.unassigned || m.label != ""
}

func (m fieldMentions) names() string {
	var names []string
	if m.project != "" {
		names = append(names, "project")
	}
	if m.status != "" {
		names = append(names, "status")
	}
	if m.priority != "" {
		names = append(names, "priority")
	}
	if m.issueType != "" {
		names = append(names, "type")
	}
	if m.assignee != "" || m.unassigned {
		names = append(names, "assignee")
	}
	if m.label != "" {
		names = append(names, "labels")
	}
	return strings.Join(names, ", ")
}

// buildJQL synthesizes a structured query from the extracted fields in
// fixed field order, joined by AND.
func (m fieldMentions) buildJQL() string {
	var clauses []string
	if m.project != "" {
		clauses = append(clauses, "project = "+m.project)
	}
	if m.status != "" {
		clauses = append(clauses, fmt.Sprintf("status = '%s'", m.status))
	}
	if m.priority != "" {
		clauses = append(clauses, "priority = "+string(m.priority))
	}
	if m.issueType != "" {
		clauses = append(clauses, "type = "+string(m.issueType))
	}
	if m.assignee != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = '%s'", m.assignee))
	}
	if m.unassigned {
		clauses = append(clauses, "assignee IS NULL")
	}
	if m.label != "" {
		clauses = append(clauses, fmt.Sprintf("labels = '%s'", m.label))
	}
	return strings.Join(clauses, " AND ")
}

var (
	projectTokenRe = regexp.MustCompile(`\b([A-Z]{2,10})\b`)
	assignedToRe   = regexp.MustCompile(`(?i)assigned to\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	labelRe        = regexp.MustCompile(`labels?\s*(?:is|=|:)?\s*(\w+)`)

	freeTextRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:related to|about|regarding|concerning)\b`),
		regexp.MustCompile(`(?i)\b(?:similar to|like)\b`),
		regexp.MustCompile(`(?i)\b(?:issues? with|problems? with)\b`),
		regexp.MustCompile(`(?i)\b(?:what|which|find|show|get)\s+(?:are|issues?|tickets?)\b`),
		regexp.MustCompile(`(?i)\b(?:working on|dealing with)\b`),
	}

	countRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bhow many\b`),
		regexp.MustCompile(`(?i)\bcount\b`),
		regexp.MustCompile(`(?i)\bnumber of\b`),
		regexp.MustCompile(`(?i)\btotal\b`),
	}

	leadingQuestionRe = regexp.MustCompile(`(?i)^(?:what|which|show|find|get|list)\s+`)
	assigneePhraseRe  = regexp.MustCompile(`(?i)assigned to\s+\w+(?:\s+\w+)?`)
	inProjectRe       = regexp.MustCompile(`(?i)in\s+(?:project\s+)?\w+`)
	withStatusRe      = regexp.MustCompile(`(?i)with\s+status\s+\w+`)
)

var typeKeywords = []struct {
	word string
	typ  ticket.IssueType
}{
	{"bugs", ticket.TypeBug},
	{"bug", ticket.TypeBug},
	{"stories", ticket.TypeStory},
	{"story", ticket.TypeStory},
	{"tasks", ticket.TypeTask},
	{"task", ticket.TypeTask},
	{"spikes", ticket.TypeSpike},
	{"spike", ticket.TypeSpike},
	{"epics", ticket.TypeEpic},
	{"epic", ticket.TypeEpic},
}

// extractFields pulls structured-field mentions out of the raw query
// using the dataset vocabulary. Only known values count as mentions.
func (c *Classifier) extractFields(query string) fieldMentions {
	var m fieldMentions
	lower := strings.ToLower(query)

	for _, tok := range projectTokenRe.FindAllString(query, -1) {
		for _, known := range c.vocab.Projects {
			if tok == known {
				m.project = tok
				break
			}
		}
		if m.project != "" {
			break
		}
	}

	for _, status := range c.vocab.Statuses {
		if strings.Contains(lower, strings.ToLower(string(status))) {
			m.status = status
			break
		}
	}

	for _, priority := range c.vocab.Priorities {
		if strings.Contains(lower, strings.ToLower(string(priority))) {
			m.priority = priority
			break
		}
	}

	for _, kw := range typeKeywords {
		if strings.Contains(lower, kw.word) {
			m.issueType = kw.typ
			break
		}
	}

	if match := assignedToRe.FindStringSubmatch(query); match != nil {
		m.assignee = match[1]
	}
	if strings.Contains(lower, "unassigned") {
		m.unassigned = true
	}
	if match := labelRe.FindStringSubmatch(lower); match != nil {
		m.label = match[1]
	}

	return m
}

func hasFreeTextIndicators(query string) bool {
	for _, re := range freeTextRes {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

func hasCountIntent(query string) bool {
	for _, re := range countRes {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

// cleanFreeTextQuery drops question-opener words that carry no ranking
// signal.
func cleanFreeTextQuery(query string) string {
	cleaned := leadingQuestionRe.ReplaceAllString(query, "")
	cleaned = strings.TrimSuffix(cleaned, "?")
	return strings.TrimSpace(cleaned)
}

// stripFromQuery removes recognized field mentions and filter phrasing
// from a hybrid query, leaving the text used for ranking.
func (m fieldMentions) stripFromQuery(query string) string {
	result := query
	for _, value := range []string{
		m.project, string(m.status), string(m.priority), string(m.issueType), m.assignee, m.label,
	} {
		if value == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(value))
		result = re.ReplaceAllString(result, "")
	}
	result = assigneePhraseRe.ReplaceAllString(result, "")
	result = inProjectRe.ReplaceAllString(result, "")
	result = withStatusRe.ReplaceAllString(result, "")
	return strings.TrimSpace(strings.Join(strings.Fields(result), " "))
}
