// Package classify routes natural-language queries to a retrieval
// mode. The decision is a one-shot rule table evaluated in strict
// order; structured and free-text retrieval never contaminate each
// other.
package classify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// Mode selects the retrieval path for a query.
type Mode string

const (
	ModeStructured    Mode = "jql"
	ModeFreeText      Mode = "semantic"
	ModeHybrid        Mode = "hybrid"
	ModeClarification Mode = "clarification_needed"
)

// Outcome is the result of classifying one query. Confidence is
// diagnostic metadata only; no component branches on it.
type Outcome struct {
	Mode          Mode
	Confidence    float64
	JQL           string
	FreeText      string
	Clarification string
	Reasoning     string
}

// minQueryLength is the trivial-length guard threshold.
const minQueryLength = 3

// Classifier inspects raw query text against the dataset vocabulary.
type Classifier struct {
	vocab  ticket.Vocabulary
	logger *slog.Logger
}

// NewClassifier creates a classifier bound to the dataset vocabulary.
func NewClassifier(vocab ticket.Vocabulary, logger *slog.Logger) *Classifier {
	return &Classifier{vocab: vocab, logger: logger}
}

// Classify decides the retrieval mode for a query by evaluating the
// fixed rule table in order; the first applicable rule wins.
func (c *Classifier) Classify(query string) Outcome {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minQueryLength {
		return Outcome{
			Mode:          ModeClarification,
			Confidence:    1.0,
			Reasoning:     "query too short",
			Clarification: "Could you provide more details about what you're looking for?",
		}
	}

	in := ruleInput{
		query:    trimmed,
		mentions: c.extractFields(trimmed),
		freeText: hasFreeTextIndicators(trimmed),
		count:    hasCountIntent(trimmed),
	}

	for _, r := range rules {
		if r.applies(in) {
			out := r.decide(in)
			if c.logger != nil {
				c.logger.Debug("query classified",
					"rule", r.name, "mode", out.Mode, "confidence", out.Confidence)
			}
			return out
		}
	}

	// Unreachable: the last rule always applies.
	return Outcome{Mode: ModeFreeText, Confidence: 0.6, FreeText: trimmed}
}

type ruleInput struct {
	query    string
	mentions fieldMentions
	freeText bool
	count    bool
}

type rule struct {
	name    string
	applies func(ruleInput) bool
	decide  func(ruleInput) Outcome
}

// rules is the ordered decision table. Order is the contract:
// count-with-fields outranks plain fields, which outranks free-text
// indicators, hybrid needs both, and the final rule is the default.
var rules = []rule{
	{
		name:    "count with filters",
		applies: func(in ruleInput) bool { return in.count && in.mentions.any() },
		decide: func(in ruleInput) Outcome {
			return Outcome{
				Mode:       ModeStructured,
				Confidence: 0.95,
				JQL:        in.mentions.buildJQL(),
				Reasoning:  "count query with explicit filters",
			}
		},
	},
	{
		name:    "structured fields only",
		applies: func(in ruleInput) bool { return in.mentions.any() && !in.freeText },
		decide: func(in ruleInput) Outcome {
			return Outcome{
				Mode:       ModeStructured,
				Confidence: 0.9,
				JQL:        in.mentions.buildJQL(),
				Reasoning:  fmt.Sprintf("detected structured fields: %s", in.mentions.names()),
			}
		},
	},
	{
		name:    "free-text indicators only",
		applies: func(in ruleInput) bool { return in.freeText && !in.mentions.any() },
		decide: func(in ruleInput) Outcome {
			return Outcome{
				Mode:       ModeFreeText,
				Confidence: 0.85,
				FreeText:   cleanFreeTextQuery(in.query),
				Reasoning:  "conceptual query detected",
			}
		},
	},
	{
		name:    "hybrid",
		applies: func(in ruleInput) bool { return in.mentions.any() && in.freeText },
		decide: func(in ruleInput) Outcome {
			return Outcome{
				Mode:       ModeHybrid,
				Confidence: 0.8,
				JQL:        in.mentions.buildJQL(),
				FreeText:   in.mentions.stripFromQuery(in.query),
				Reasoning:  "both structured filters and conceptual elements detected",
			}
		},
	},
	{
		name:    "default free-text",
		applies: func(ruleInput) bool { return true },
		decide: func(in ruleInput) Outcome {
			return Outcome{
				Mode:       ModeFreeText,
				Confidence: 0.6,
				FreeText:   in.query,
				Reasoning:  "no clear structure detected, defaulting to ranked retrieval",
			}
		},
	},
}
