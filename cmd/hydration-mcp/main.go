// hydration-mcp serves the hydration tracker over MCP (stdio transport).
//
// Usage:
//
//	hydration-mcp            # serve the profile from MCP_PROFILE_ID
//	hydration-mcp version
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/config"
	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/logger"
	"github.com/ykvlv/hydration-bot/internal/mcptools"
	"github.com/ykvlv/hydration-bot/internal/store"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hydration-mcp %s\n", mcptools.Version)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr; stdout belongs to the MCP transport.
	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	repo, err := store.OpenSQLite(context.Background(), cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = repo.Close() }()

	tr := tracker.New(repo, domain.SystemClock{}, log, cfg.DefaultTZ)
	s := mcptools.NewServer(tr, cfg.MCPProfileID)

	log.Info("serving MCP over stdio", zap.Int64("profile", cfg.MCPProfileID))
	return server.ServeStdio(s)
}
