package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/prtrack/internal/exercise"
	"github.com/claude/prtrack/internal/models"
	"github.com/claude/prtrack/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type messageRequest struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
	// Edited marks a message edit: previously stored rows for the same
	// message_id are replaced by the fresh parse.
	Edited bool `json:"edited"`
}

type messageResponse struct {
	PRs      []models.ParsedPR `json:"prs"`
	Inserted int               `json:"inserted"`
	Deleted  int64             `json:"deleted"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.UserID == "" || req.MessageID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and message_id are required"})
		return
	}

	program, err := s.db.GetProgramExercises(r.Context(), req.UserID)
	if err != nil {
		s.log.Error("loading program", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	parsed := s.parser.ParseAll(req.Message, program)
	rows := make([]models.PRRow, 0, len(parsed))
	for _, p := range parsed {
		rows = append(rows, storage.NewPRRow(p, req.UserID, req.Username, req.MessageID, req.ChannelID))
	}

	resp := messageResponse{PRs: parsed, Inserted: len(rows)}
	if req.Edited {
		deleted, err := s.db.ReplaceMessagePRs(r.Context(), req.MessageID, rows)
		if err != nil {
			s.log.Error("replacing message prs", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Deleted = deleted
	} else if len(rows) > 0 {
		if _, err := s.db.InsertPRs(r.Context(), rows); err != nil {
			s.log.Error("inserting prs", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteMessage drops the PRs recorded from a chat message that
// was deleted at the source.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")

	deleted, err := s.db.DeleteMessagePRs(r.Context(), messageID)
	if err != nil {
		s.log.Error("deleting message prs", "error", err, "message_id", messageID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

type parseRequest struct {
	Message string   `json:"message"`
	Program []string `json:"program,omitempty"`
	UserID  string   `json:"user_id,omitempty"`
}

// handleParse is the dry-run endpoint: it parses a message without
// storing anything. The matching vocabulary is the request's program
// list, or the user's stored program when only user_id is given.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	program := req.Program
	if program == nil && req.UserID != "" {
		stored, err := s.db.GetProgramExercises(r.Context(), req.UserID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		program = stored
	}

	parsed := s.parser.ParseAll(req.Message, program)
	if parsed == nil {
		parsed = []models.ParsedPR{}
	}
	writeJSON(w, http.StatusOK, parsed)
}

type insertPRsRequest struct {
	PRs []models.PRRow `json:"prs"`
}

// handleInsertPRs ingests pre-parsed PR rows. Remote MCP clients use
// this instead of hitting the database directly.
func (s *Server) handleInsertPRs(w http.ResponseWriter, r *http.Request) {
	var req insertPRsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	for i := range req.PRs {
		row := &req.PRs[i]
		if row.UserID == "" || row.Exercise == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and exercise are required on every row"})
			return
		}
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
	}

	inserted, err := s.db.InsertPRs(r.Context(), req.PRs)
	if err != nil {
		s.log.Error("inserting prs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"inserted": inserted})
}

func (s *Server) handleRecentPRs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be 1-100"})
			return
		}
		limit = n
	}

	rows, err := s.db.RecentPRs(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []models.PRRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBestPRs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	best, err := s.db.BestE1RMs(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if best == nil {
		best = []models.BestE1RM{}
	}
	writeJSON(w, http.StatusOK, best)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	exercises, err := s.db.GetProgramExercises(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if exercises == nil {
		exercises = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

type programRequest struct {
	Exercises []string `json:"exercises"`
}

// handlePutProgram replaces a user's program. Incoming names are run
// through the canonicalizer so the stored vocabulary matches what the
// parser produces.
func (s *Server) handlePutProgram(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	normalized := make([]string, 0, len(req.Exercises))
	for _, name := range req.Exercises {
		canon := exercise.Normalize(name, nil)
		if canon == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty exercise name"})
			return
		}
		normalized = append(normalized, canon)
	}

	if err := s.db.ReplaceProgram(r.Context(), userID, normalized); err != nil {
		s.log.Error("replacing program", "error", err, "user_id", userID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"exercises": normalized})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.db.CountPRs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
