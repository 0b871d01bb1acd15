package assistant

import (
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/classify"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// IssueSummary is the public-safe projection of a ticket included in
// responses.
type IssueSummary struct {
	Key     string        `json:"key"`
	Summary string        `json:"summary"`
	Status  ticket.Status `json:"status"`
}

// Response is the caller-facing result of one query turn. Errors are
// returned as data; nothing is thrown across this boundary.
type Response struct {
	ID               string         `json:"id"`
	Success          bool           `json:"success"`
	Answer           string         `json:"answer"`
	Issues           []IssueSummary `json:"issues"`
	TotalCount       int            `json:"total_count"`
	Mode             classify.Mode  `json:"query_mode"`
	JQL              string         `json:"jql_used,omitempty"`
	FreeText         string         `json:"semantic_query,omitempty"`
	ValidationPassed bool           `json:"validation_passed"`
	Warnings         []string       `json:"warnings,omitempty"`
	Errors           []string       `json:"errors,omitempty"`
}

func summarize(issues []*ticket.Ticket) []IssueSummary {
	out := make([]IssueSummary, 0, len(issues))
	for _, t := range issues {
		out = append(out, IssueSummary{Key: t.Key, Summary: t.Summary, Status: t.Status})
	}
	return out
}
