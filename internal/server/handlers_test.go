package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/prtrack/internal/models"
	"github.com/claude/prtrack/internal/pr"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(nil, pr.New(pr.DefaultOptions()), "test-key", log)
}

// TestHandleParseWithProgram verifies the dry-run parse endpoint end to
// end through the router: auth, JSON decoding, parsing and fuzzy
// matching against the supplied program. No database is touched when a
// program list is provided.
func TestHandleParseWithProgram(t *testing.T) {
	srv := testServer(t)

	body := `{"message": "db bench 85/12\nchinup BW/8", "program": ["dumbbell bench press"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var prs []models.ParsedPR
	if err := json.NewDecoder(rec.Body).Decode(&prs); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("parsed %d PRs, want 2", len(prs))
	}
	if prs[0].CanonicalExercise != "dumbbell bench press" {
		t.Errorf("prs[0] = %q, want %q", prs[0].CanonicalExercise, "dumbbell bench press")
	}
	if math.Abs(prs[0].Estimated1RM-119) > 1e-9 {
		t.Errorf("prs[0] e1rm = %v, want 119", prs[0].Estimated1RM)
	}
	if prs[1].CanonicalExercise != "chinup" || prs[1].Weight != 0 {
		t.Errorf("prs[1] = %+v, want bodyweight chinup", prs[1])
	}
}

// TestHandleParseEmptyResult verifies that a message with no parseable
// lines returns an empty JSON array, not null.
func TestHandleParseEmptyResult(t *testing.T) {
	srv := testServer(t)

	body := `{"message": "just chatting", "program": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

// TestHandleParseRequiresAuth verifies that write endpoints sit behind
// the API key middleware.
func TestHandleParseRequiresAuth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"message": "x"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without API key", rec.Code)
	}
}

// TestHandleParseBadJSON verifies that malformed request bodies get 400.
func TestHandleParseBadJSON(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("{not json"))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleMessageValidation verifies that message ingestion rejects
// payloads missing identifiers before touching the database.
func TestHandleMessageValidation(t *testing.T) {
	srv := testServer(t)

	body := `{"message": "db bench 85/12"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing user_id/message_id", rec.Code)
	}
}

// TestHandleDeleteMessageRequiresAuth verifies that message deletion is
// a keyed write like the other mutating endpoints.
func TestHandleDeleteMessageRequiresAuth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/messages/m1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without API key", rec.Code)
	}
}

// TestHandleRecentPRsLimitValidation verifies limit bounds checking.
func TestHandleRecentPRsLimitValidation(t *testing.T) {
	srv := testServer(t)

	for _, limit := range []string{"0", "-1", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/prs?limit="+limit, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
}

// TestHandleInsertPRsValidation verifies that the raw-row ingest
// endpoint rejects rows without identifiers.
func TestHandleInsertPRsValidation(t *testing.T) {
	srv := testServer(t)

	body := `{"prs": [{"exercise": "bench press"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/prs", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for row without user_id", rec.Code)
	}
}
