// Package mcp exposes PR logging and lookup as Model Context Protocol
// tools, so an LLM client can record and query personal records.
package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/prtrack/internal/pr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, parser *pr.Parser, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PRTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PRTrack personal record server. Log lifting PRs from free-form lines, normalize exercise names, and query recent PRs, best estimated one-rep maxes, and training programs."),
	)

	h := &handlers{ds: ds, parser: parser, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolLogPR, Handler: h.logPR},
		server.ServerTool{Tool: toolParsePR, Handler: h.parsePR},
		server.ServerTool{Tool: toolNormalizeExercise, Handler: h.normalizeExercise},
		server.ServerTool{Tool: toolGetRecentPRs, Handler: h.getRecentPRs},
		server.ServerTool{Tool: toolGetBestE1RM, Handler: h.getBestE1RM},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentPRs, Handler: h.recentPRsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	parser *pr.Parser
	log    *slog.Logger
}

// --- Resource definitions ---

var resRecentPRs = mcp.NewResource(
	"prtrack://recent_prs",
	"Recent PRs",
	mcp.WithResourceDescription("The authenticated user's most recent personal records"),
	mcp.WithMIMEType("application/json"),
)
