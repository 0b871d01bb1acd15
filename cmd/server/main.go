package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/access"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/assistant"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/classify"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/config"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/jql"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/mcp"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/search"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/sqlite"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
	"github.com/IanBaswana/jira-ai-assistant-demo/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ticketRepo := sqlite.NewTicketRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	if err := seedIfEmpty(ctx, ticketRepo, cfg.Data.SeedPath, logger); err != nil {
		logger.Error("failed to seed dataset", "error", err)
		os.Exit(1)
	}

	universe, err := loadUniverse(ctx, ticketRepo)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded", "issues", universe.Len())

	table, err := access.LoadTable(cfg.Data.PermissionsPath)
	if err != nil {
		logger.Error("failed to load permissions", "error", err, "path", cfg.Data.PermissionsPath)
		os.Exit(1)
	}

	classifier := classify.NewClassifier(universe.Vocabulary(), logger)
	engine := jql.NewEngine(universe, logger)
	index := search.NewIndex(universe, logger)
	filter := access.NewFilter(table, logger)
	validator := validate.NewValidator(universe, logger)

	assistantSvc := assistant.NewService(
		classifier, engine, index, filter, validator, nil, auditRepo, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Assistant: assistantSvc,
			Engine:    engine,
			Index:     index,
			Filter:    filter,
			Universe:  universe,
		},
		DefaultUser:   cfg.Identity.DefaultUser,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

// seedIfEmpty imports the YAML seed dataset on first start. A
// populated store is left untouched.
func seedIfEmpty(ctx context.Context, repo *sqlite.TicketRepository, seedPath string, logger *slog.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ds, err := sqlite.LoadDataset(seedPath)
	if err != nil {
		return err
	}
	if err := sqlite.ImportDataset(ctx, repo, ds); err != nil {
		return err
	}
	logger.Info("seeded dataset", "path", seedPath, "issues", len(ds.Tickets))
	return nil
}

func loadUniverse(ctx context.Context, repo *sqlite.TicketRepository) (*ticket.Universe, error) {
	tickets, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	vocab, err := repo.LoadVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	if len(vocab.Statuses) == 0 {
		vocab = ticket.DefaultVocabulary()
	}
	return ticket.NewUniverse(tickets, vocab)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
