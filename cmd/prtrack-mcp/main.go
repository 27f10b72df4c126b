// prtrack-mcp serves PRTrack tools over the Model Context Protocol on
// stdio. It runs in one of two modes: local (direct database access via
// the config file) or remote (REST API over the -url flag, typically a
// Tailscale hostname).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/prtrack/internal/config"
	prmcp "github.com/claude/prtrack/internal/mcp"
	"github.com/claude/prtrack/internal/pr"
	"github.com/claude/prtrack/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remoteURL := flag.String("url", "", "PRTrack server base URL (remote mode)")
	apiKey := flag.String("api-key", os.Getenv("PRTRACK_API_KEY"), "API key for write calls in remote mode")
	userID := flag.String("user", os.Getenv("PRTRACK_USER_ID"), "user ID for tool calls that omit user_id")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds prmcp.DataSource
	opts := pr.DefaultOptions()

	if *remoteURL != "" {
		ds = prmcp.NewHTTPClient(*remoteURL, *apiKey)
		log.Info("remote mode", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		opts = pr.Options{
			FuzzyThreshold: cfg.Parser.FuzzyThreshold,
			Permissive:     cfg.Parser.Permissive,
			MaxWeight:      cfg.Parser.MaxWeight,
			MinReps:        cfg.Parser.MinReps,
			MaxReps:        cfg.Parser.MaxReps,
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode", "database", cfg.Database.Host)
	}

	s := prmcp.New(ds, pr.New(opts), Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return prmcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
