package jql

import (
	"log/slog"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// Engine executes structured queries against the record universe.
type Engine struct {
	universe *ticket.Universe
	logger   *slog.Logger
}

// NewEngine creates a structured query engine over a universe.
func NewEngine(universe *ticket.Universe, logger *slog.Logger) *Engine {
	return &Engine{universe: universe, logger: logger}
}

// Execute parses and evaluates a query over the whole universe. A parse
// failure aborts the query with the offending clause in the error.
func (e *Engine) Execute(text string) (Result, error) {
	q, err := Parse(text)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("structured query rejected", "query", text, "error", err)
		}
		return Result{Query: text}, err
	}

	issues := Evaluate(e.universe.Tickets(), q)
	if e.logger != nil {
		e.logger.Debug("structured query executed", "query", text, "matched", len(issues))
	}
	return Result{Issues: issues, Total: len(issues), Query: text}, nil
}
