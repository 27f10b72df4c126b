// Package importer backfills PRs from exported chat logs. Each log file
// holds one message per line as "user_id<TAB>message"; already-imported
// files are tracked in a local SQLite state database and skipped on
// later runs.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/prtrack/internal/models"
	"github.com/claude/prtrack/internal/pr"
	"github.com/claude/prtrack/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	LinesRead    int
	PRsParsed    int
	PRsInserted  int64
	PRsDuplicate int64
}

// Importer reads log files from a directory and inserts parsed PRs.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	parser *pr.Parser
	log    *slog.Logger
	dryRun bool
	stats  Stats

	// programs caches per-user program lists across files.
	programs map[string][]string
}

// New creates a new Importer.
func New(db *storage.DB, state *StateDB, parser *pr.Parser, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		db:       db,
		state:    state,
		parser:   parser,
		log:      log,
		dryRun:   dryRun,
		programs: make(map[string][]string),
	}
}

// Import processes all .log and .txt files under dir.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	var files []string
	for _, pattern := range []string{"*.log", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return &imp.stats, err
		}
		files = append(files, matches...)
	}

	for _, f := range files {
		if err := imp.importFile(ctx, dir, f); err != nil {
			return &imp.stats, fmt.Errorf("importing %s: %w", filepath.Base(f), err)
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, dir, path string) error {
	relPath, err := filepath.Rel(dir, path)
	if err != nil {
		relPath = filepath.Base(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		imp.log.Warn("stat failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		imp.log.Warn("hash failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	done, err := imp.state.IsImported(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		imp.stats.FilesSkipped++
		return nil
	}

	rows, err := imp.parseFile(ctx, path)
	if err != nil {
		imp.log.Warn("parse failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	imp.stats.FilesProcessed++
	imp.stats.PRsParsed += len(rows)

	if imp.dryRun {
		imp.stats.PRsInserted += int64(len(rows))
		return nil
	}

	inserted, err := imp.batchInsert(ctx, rows)
	if err != nil {
		return err
	}
	imp.stats.PRsInserted += inserted
	imp.stats.PRsDuplicate += int64(len(rows)) - inserted

	if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("marking imported: %w", err)
	}
	return nil
}

// parseFile reads a log file and parses every line that looks like a PR.
// Malformed lines (no tab, empty message, non-PR text) are skipped.
func (imp *Importer) parseFile(ctx context.Context, path string) ([]models.PRRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []models.PRRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		imp.stats.LinesRead++
		line := scanner.Text()

		userID, message, ok := strings.Cut(line, "\t")
		if !ok || userID == "" {
			continue
		}

		program, err := imp.programFor(ctx, userID)
		if err != nil {
			return nil, err
		}

		for _, parsed := range imp.parser.ParseAll(message, program) {
			rows = append(rows, storage.NewPRRow(parsed, userID, "", "", ""))
		}
	}
	return rows, scanner.Err()
}

func (imp *Importer) programFor(ctx context.Context, userID string) ([]string, error) {
	if program, ok := imp.programs[userID]; ok {
		return program, nil
	}
	program, err := imp.db.GetProgramExercises(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading program for %s: %w", userID, err)
	}
	imp.programs[userID] = program
	return program, nil
}

// batchInsert inserts rows in chunks to stay within PostgreSQL's
// parameter limit. 13 params per row, max 65535 params.
func (imp *Importer) batchInsert(ctx context.Context, rows []models.PRRow) (int64, error) {
	const batchSize = 5000
	var totalInserted int64

	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		inserted, err := imp.db.InsertPRs(ctx, rows[i:end])
		if err != nil {
			return totalInserted, err
		}
		totalInserted += inserted
	}
	return totalInserted, nil
}
