package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/prtrack/internal/pr"
	"github.com/claude/prtrack/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	parser *pr.Parser
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, parser *pr.Parser, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		parser: parser,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/messages", s.handleMessage)
		r.Delete("/api/v1/messages/{id}", s.handleDeleteMessage)
		r.Post("/api/v1/parse", s.handleParse)
		r.Post("/api/v1/prs", s.handleInsertPRs)
		r.Put("/api/v1/users/{id}/program", s.handlePutProgram)
	})

	// Read endpoints (no auth, tsnet handles access)
	s.router.Get("/api/v1/users/{id}/prs", s.handleRecentPRs)
	s.router.Get("/api/v1/users/{id}/prs/best", s.handleBestPRs)
	s.router.Get("/api/v1/users/{id}/program", s.handleGetProgram)
	s.router.Get("/api/v1/stats/count", s.handleCount)
}
