package mcp

import (
	"errors"
	"fmt"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/jql"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var parseErr *jql.ParseError
	switch {
	case errors.Is(err, ticket.ErrIssueNotFound):
		return &APIError{Code: "ISSUE_NOT_FOUND", Message: "issue not found", RecoveryHint: "Check the issue key spelling"}
	case errors.As(err, &parseErr):
		return &APIError{Code: "INVALID_QUERY", Message: parseErr.Error(), RecoveryHint: "Check JQL syntax, e.g. status = 'In Progress' AND priority = High"}
	default:
		return nil
	}
}

// toolError wraps an error for a tool response, preferring mapped
// codes over raw messages.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
