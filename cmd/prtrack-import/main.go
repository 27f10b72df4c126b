package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/prtrack/internal/config"
	"github.com/claude/prtrack/internal/importer"
	"github.com/claude/prtrack/internal/pr"
	"github.com/claude/prtrack/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	logsPath := flag.String("path", "", "path to directory of chat log files (required)")
	statePath := flag.String("state", ".prtrack-import", "directory for the import state database")
	permissive := flag.Bool("permissive", false, "accept legacy line formats (x/×/-/: separators, reversed order)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *logsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: prtrack-import -config config.yaml -path /path/to/logs [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*logsPath)
	if err != nil || !info.IsDir() {
		log.Error("logs path does not exist or is not a directory", "path", *logsPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	state, err := importer.OpenStateDB(*statePath)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	parser := pr.New(pr.Options{
		FuzzyThreshold: cfg.Parser.FuzzyThreshold,
		Permissive:     cfg.Parser.Permissive || *permissive,
		MaxWeight:      cfg.Parser.MaxWeight,
		MinReps:        cfg.Parser.MinReps,
		MaxReps:        cfg.Parser.MaxReps,
	})

	// Run import
	imp := importer.New(db, state, parser, log, *dryRun)
	stats, err := imp.Import(ctx, *logsPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"lines_read", stats.LinesRead,
		"prs_parsed", stats.PRsParsed,
		"prs_inserted", stats.PRsInserted,
		"prs_duplicated", stats.PRsDuplicate,
	)
}
