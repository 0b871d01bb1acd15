// Package assistant sequences the query pipeline: classify, retrieve,
// filter, generate, validate, fall back. The orchestrator routes and
// assembles; it never produces record data itself.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/access"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/classify"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/jql"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/search"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/validate"
)

// freeTextTopK bounds ranked retrieval for pure free-text queries.
const freeTextTopK = 10

// AuditLog records permission denials for later inspection. A nil
// audit log disables auditing.
type AuditLog interface {
	LogDenials(ctx context.Context, userID, query string, reasons map[string]string) error
}

// Service is the query orchestrator.
type Service struct {
	classifier *classify.Classifier
	engine     *jql.Engine
	index      *search.Index
	filter     *access.Filter
	validator  *validate.Validator
	generator  Generator
	audit      AuditLog
	logger     *slog.Logger
}

// NewService wires the pipeline stages together. A nil generator falls
// back to the built-in template generator.
func NewService(
	classifier *classify.Classifier,
	engine *jql.Engine,
	index *search.Index,
	filter *access.Filter,
	validator *validate.Validator,
	generator Generator,
	audit AuditLog,
	logger *slog.Logger,
) *Service {
	if generator == nil {
		generator = TemplateGenerator{}
	}
	return &Service{
		classifier: classifier,
		engine:     engine,
		index:      index,
		filter:     filter,
		validator:  validator,
		generator:  generator,
		audit:      audit,
		logger:     logger,
	}
}

// Ask processes one natural-language query for a user identity,
// end to end. Every failure is returned as a structured response; no
// stage fault escapes to the caller.
func (s *Service) Ask(ctx context.Context, query, userID string) Response {
	resp := Response{ID: uuid.NewString(), ValidationPassed: true}

	outcome := s.classifier.Classify(query)
	resp.Mode = outcome.Mode
	resp.JQL = outcome.JQL
	resp.FreeText = outcome.FreeText

	if outcome.Mode == classify.ModeClarification {
		resp.Success = true
		resp.Answer = outcome.Clarification
		return resp
	}

	retrieved, err := s.retrieve(outcome)
	if err != nil {
		resp.Success = false
		resp.Answer = "I couldn't run that query. Please try rephrasing."
		resp.Errors = append(resp.Errors, err.Error())
		if s.logger != nil {
			s.logger.Warn("retrieval failed", "query", query, "mode", outcome.Mode, "error", err)
		}
		return resp
	}

	filtered := s.filter.Apply(retrieved, userID)
	if filtered.FilteredCount > 0 {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("%d issue(s) hidden due to permissions", filtered.FilteredCount))
		if s.audit != nil {
			if auditErr := s.audit.LogDenials(ctx, userID, query, filtered.Denied); auditErr != nil && s.logger != nil {
				s.logger.Warn("audit log write failed", "error", auditErr)
			}
		}
	}
	issues := filtered.Allowed

	answer, err := s.generator.Generate(ctx, query, issues, outcome.Mode)
	if err != nil {
		answer = s.validator.Render(issues, validate.KindList)
		resp.Warnings = append(resp.Warnings, "answer generation failed; showing a deterministic summary")
		if s.logger != nil {
			s.logger.Warn("answer generation failed", "error", err)
		}
	}

	validation := s.validator.Validate(answer, issues)
	resp.ValidationPassed = validation.Valid
	if !validation.Valid {
		answer = s.validator.Render(issues, validate.KindList)
		if s.logger != nil {
			s.logger.Warn("answer failed validation, using fallback",
				"errors", validation.Errors)
		}
	}
	resp.Warnings = append(resp.Warnings, validation.Warnings...)

	resp.Success = true
	resp.Answer = answer
	resp.Issues = summarize(issues)
	resp.TotalCount = len(issues)
	return resp
}

func (s *Service) retrieve(outcome classify.Outcome) ([]*ticket.Ticket, error) {
	switch outcome.Mode {
	case classify.ModeStructured:
		result, err := s.engine.Execute(outcome.JQL)
		if err != nil {
			return nil, err
		}
		return result.Issues, nil
	case classify.ModeFreeText:
		return s.index.Search(outcome.FreeText, freeTextTopK, search.DefaultMinScore).Issues, nil
	case classify.ModeHybrid:
		return s.retrieveHybrid(outcome)
	default:
		return nil, fmt.Errorf("unknown query mode: %s", outcome.Mode)
	}
}

// retrieveHybrid treats structured membership as a hard gate: ranked
// retrieval only reorders the records the structured filter admitted,
// and gate survivors that ranking never surfaced append at the end in
// structured-filter order.
func (s *Service) retrieveHybrid(outcome classify.Outcome) ([]*ticket.Ticket, error) {
	gate, err := s.engine.Execute(outcome.JQL)
	if err != nil {
		return nil, err
	}
	if len(gate.Issues) == 0 {
		return nil, nil
	}

	inGate := make(map[string]struct{}, len(gate.Issues))
	for _, t := range gate.Issues {
		inGate[t.Key] = struct{}{}
	}

	ranked := s.index.Search(outcome.FreeText, len(gate.Issues), search.DefaultMinScore)

	var merged []*ticket.Ticket
	surfaced := map[string]struct{}{}
	for _, t := range ranked.Issues {
		if _, ok := inGate[t.Key]; ok {
			merged = append(merged, t)
			surfaced[t.Key] = struct{}{}
		}
	}
	for _, t := range gate.Issues {
		if _, ok := surfaced[t.Key]; !ok {
			merged = append(merged, t)
		}
	}
	return merged, nil
}
