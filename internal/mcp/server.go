package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/access"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/assistant"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/jql"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/search"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

const serverInstructions = `Grounded question answering over a ticket tracker dataset.

Use ask for natural-language questions; it classifies the query,
retrieves matching issues, applies the acting user's permissions and
validates the answer against the retrieved data. Use run_query for
raw JQL, search_issues for relevance-ranked free text, similar_issues
to find issues resembling a known one, and check_access to probe a
single permission decision. describe_dataset reports the valid field
values.`

// Services contains the pipeline services needed by MCP.
type Services struct {
	Assistant *assistant.Service
	Engine    *jql.Engine
	Index     *search.Index
	Filter    *access.Filter
	Universe  *ticket.Universe
}

// Config contains server configuration.
type Config struct {
	Services      Services
	DefaultUser   string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "jira-ai-assistant",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local single-user; requests carry no identity
	// headers, so every call acts as the default user.
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(defaultIdentityMiddleware(cfg.DefaultUser))
	} else {
		server.AddReceivingMiddleware(identityMiddleware(cfg.DefaultUser))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

// actingUser resolves the effective user for a tool call: an explicit
// user_id argument wins, then the identity the middleware attached.
func actingUser(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return getUserID(ctx)
}
