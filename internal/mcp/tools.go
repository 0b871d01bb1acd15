package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/access"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/assistant"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/search"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

type askInput struct {
	Query  string `json:"query" jsonschema:"the natural-language question"`
	UserID string `json:"user_id,omitempty" jsonschema:"acting user ID (defaults to the request identity)"`
}

type runQueryInput struct {
	JQL    string `json:"jql" jsonschema:"JQL filter, e.g. status = 'In Progress' AND priority = High"`
	UserID string `json:"user_id,omitempty" jsonschema:"acting user ID (defaults to the request identity)"`
}

type runQueryOutput struct {
	Issues []*ticket.Ticket `json:"issues"`
	Total  int              `json:"total"`
	JQL    string           `json:"jql"`
	Hidden int              `json:"hidden,omitempty"`
}

type searchInput struct {
	Query    string  `json:"query" jsonschema:"free-text search terms"`
	TopK     int     `json:"top_k,omitempty" jsonschema:"maximum results (default 5)"`
	MinScore float64 `json:"min_score,omitempty" jsonschema:"minimum similarity score (default 0.1)"`
	UserID   string  `json:"user_id,omitempty" jsonschema:"acting user ID (defaults to the request identity)"`
}

type searchHit struct {
	Key     string  `json:"key"`
	Summary string  `json:"summary"`
	Status  string  `json:"status"`
	Score   float64 `json:"score"`
}

type searchOutput struct {
	Hits       []searchHit `json:"hits"`
	Total      int         `json:"total"`
	Hidden     int         `json:"hidden,omitempty"`
	Diagnostic string      `json:"diagnostic,omitempty"`
}

type similarInput struct {
	Key    string `json:"key" jsonschema:"issue key to find similar issues for"`
	TopK   int    `json:"top_k,omitempty" jsonschema:"maximum results (default 5)"`
	UserID string `json:"user_id,omitempty" jsonschema:"acting user ID (defaults to the request identity)"`
}

type checkAccessInput struct {
	Key    string `json:"key" jsonschema:"issue key to probe"`
	UserID string `json:"user_id,omitempty" jsonschema:"acting user ID (defaults to the request identity)"`
}

type checkAccessOutput struct {
	Key     string                `json:"key"`
	UserID  string                `json:"user_id"`
	Allowed bool                  `json:"allowed"`
	Reason  string                `json:"reason,omitempty"`
	Profile access.ProfileSummary `json:"profile"`
}

type describeInput struct{}

type describeOutput struct {
	TotalIssues int               `json:"total_issues"`
	Vocabulary  ticket.Vocabulary `json:"vocabulary"`
	Assignees   []string          `json:"assignees"`
	Labels      []string          `json:"labels"`
	Components  []string          `json:"components"`
}

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ask",
		Description: "Answer a natural-language question about the issue tracker, grounded in retrieved issues and the acting user's permissions",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in askInput) (*sdkmcp.CallToolResult, assistant.Response, error) {
		resp := svcs.Assistant.Ask(ctx, in.Query, actingUser(ctx, in.UserID))
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_query",
		Description: "Run a raw JQL query and return the matching issues the acting user may view",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in runQueryInput) (*sdkmcp.CallToolResult, runQueryOutput, error) {
		result, err := svcs.Engine.Execute(in.JQL)
		if err != nil {
			return nil, runQueryOutput{}, toolError(err)
		}
		filtered := svcs.Filter.Apply(result.Issues, actingUser(ctx, in.UserID))
		return nil, runQueryOutput{
			Issues: filtered.Allowed,
			Total:  len(filtered.Allowed),
			JQL:    in.JQL,
			Hidden: filtered.FilteredCount,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_issues",
		Description: "Rank issues by relevance to free-text search terms, filtered to what the acting user may view",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in searchInput) (*sdkmcp.CallToolResult, searchOutput, error) {
		topK := in.TopK
		if topK <= 0 {
			topK = search.DefaultTopK
		}
		minScore := in.MinScore
		if minScore <= 0 {
			minScore = search.DefaultMinScore
		}
		result := svcs.Index.Search(in.Query, topK, minScore)
		out := buildSearchOutput(svcs, result, actingUser(ctx, in.UserID))
		out.Diagnostic = result.Diagnostic
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "similar_issues",
		Description: "Find issues most similar to a given issue, filtered to what the acting user may view",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in similarInput) (*sdkmcp.CallToolResult, searchOutput, error) {
		topK := in.TopK
		if topK <= 0 {
			topK = search.DefaultTopK
		}
		result, err := svcs.Index.SimilarTo(in.Key, topK)
		if err != nil {
			return nil, searchOutput{}, toolError(err)
		}
		return nil, buildSearchOutput(svcs, result, actingUser(ctx, in.UserID)), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "check_access",
		Description: "Check whether a user may view a single issue and why not if denied",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in checkAccessInput) (*sdkmcp.CallToolResult, checkAccessOutput, error) {
		t, ok := svcs.Universe.Get(in.Key)
		if !ok {
			return nil, checkAccessOutput{}, toolError(ticket.ErrIssueNotFound)
		}
		userID := actingUser(ctx, in.UserID)
		allowed, reason := svcs.Filter.CheckAccess(t, userID)
		return nil, checkAccessOutput{
			Key:     in.Key,
			UserID:  userID,
			Allowed: allowed,
			Reason:  reason,
			Profile: svcs.Filter.Summary(userID),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "describe_dataset",
		Description: "Describe the dataset: issue count, valid field values, assignees, labels and components",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in describeInput) (*sdkmcp.CallToolResult, describeOutput, error) {
		return nil, describeOutput{
			TotalIssues: svcs.Universe.Len(),
			Vocabulary:  svcs.Universe.Vocabulary(),
			Assignees:   svcs.Universe.Assignees(),
			Labels:      svcs.Universe.Labels(),
			Components:  svcs.Universe.Components(),
		}, nil
	})
}

// buildSearchOutput keeps ranked order and per-hit scores while
// dropping issues the user may not view.
func buildSearchOutput(svcs Services, result search.Result, userID string) searchOutput {
	filtered := svcs.Filter.Apply(result.Issues, userID)
	allowed := make(map[string]struct{}, len(filtered.Allowed))
	for _, t := range filtered.Allowed {
		allowed[t.Key] = struct{}{}
	}

	out := searchOutput{Hidden: filtered.FilteredCount}
	for _, t := range result.Issues {
		if _, ok := allowed[t.Key]; !ok {
			continue
		}
		out.Hits = append(out.Hits, searchHit{
			Key:     t.Key,
			Summary: t.Summary,
			Status:  string(t.Status),
			Score:   result.Scores[t.Key],
		})
	}
	out.Total = len(out.Hits)
	return out
}
