package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/prtrack/internal/pr"
)

func testImporter(t *testing.T) *Importer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	imp := New(nil, nil, pr.New(pr.DefaultOptions()), log, true)
	// pre-seed the program cache so no database is needed
	imp.programs["u1"] = nil
	imp.programs["u2"] = []string{"dumbbell bench press"}
	return imp
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestParseFile verifies the user_id<TAB>message line format: PR lines
// become rows attributed to the right user, everything else is skipped.
func TestParseFile(t *testing.T) {
	imp := testImporter(t)

	content := "u1\tdb bench 85/12\n" +
		"u1\tjust chatting\n" +
		"no tab on this line\n" +
		"\tmissing user id 100/5\n" +
		"u2\tsquat 225/5\n" +
		"u1\t*coach comment\n"

	rows, err := imp.parseFile(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("parseFile: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	if rows[0].UserID != "u1" || rows[0].Exercise != "dumbbell bench press" {
		t.Errorf("rows[0] = %s/%s, want u1/dumbbell bench press", rows[0].UserID, rows[0].Exercise)
	}
	if rows[1].UserID != "u2" || rows[1].Exercise != "barbell back squat" {
		t.Errorf("rows[1] = %s/%s, want u2/barbell back squat", rows[1].UserID, rows[1].Exercise)
	}
	if imp.stats.LinesRead != 6 {
		t.Errorf("lines read = %d, want 6", imp.stats.LinesRead)
	}
}

// TestParseFileFuzzyProgram verifies that the cached per-user program
// list feeds the fuzzy matcher during import.
func TestParseFileFuzzyProgram(t *testing.T) {
	imp := testImporter(t)

	// u2's program contains "dumbbell bench press"; a typo'd entry
	// should fuzzy-match onto it
	content := "u2\tdumbbel bench press 85/12\n"
	rows, err := imp.parseFile(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("parseFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("parsed %d rows, want 1", len(rows))
	}
	if rows[0].Exercise != "dumbbell bench press" {
		t.Errorf("exercise = %q, want %q", rows[0].Exercise, "dumbbell bench press")
	}
	if !rows[0].UsedFuzzy {
		t.Error("UsedFuzzy = false, want true")
	}
}

// TestStateDBRoundTrip verifies the imported-files ledger: unknown files
// are not marked, marked files are found again, and a changed hash is
// treated as a new file.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	done, err := state.IsImported("a.log", 100, "hash1")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if done {
		t.Error("unknown file reported as imported")
	}

	if err := state.MarkImported("a.log", 100, "hash1"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	done, err = state.IsImported("a.log", 100, "hash1")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	// same path, different content
	done, err = state.IsImported("a.log", 100, "hash2")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if done {
		t.Error("changed file reported as already imported")
	}
}

// TestHashFile verifies the content hash is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	path := writeLog(t, "u1\tdb bench 85/12\n")

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != h2 {
		t.Error("hash not stable across reads")
	}

	other := writeLog(t, "u1\tdb bench 90/10\n")
	h3, err := HashFile(other)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 == h3 {
		t.Error("different content produced the same hash")
	}
}
