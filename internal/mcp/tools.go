package mcp

import (
	"context"

	"github.com/claude/prtrack/internal/exercise"
	"github.com/claude/prtrack/internal/models"
	"github.com/claude/prtrack/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolLogPR = mcp.NewTool("log_pr",
	mcp.WithDescription("Log one or more personal records from a free-form message. Each line should look like '<exercise> <weight>/<reps>', e.g. 'db bench 85/12' or 'chinup BW/8'. Lines that do not parse are skipped."),
	mcp.WithString("message", mcp.Required(), mcp.Description("The PR message, one PR per line")),
	mcp.WithString("user_id", mcp.Description("User to log for. Defaults to the authenticated user.")),
	mcp.WithString("username", mcp.Description("Display name stored alongside the PR")),
)

var toolParsePR = mcp.NewTool("parse_pr",
	mcp.WithDescription("Parse a PR message without storing anything. Returns the structured records that log_pr would create, including the canonical exercise name and estimated one-rep max."),
	mcp.WithString("message", mcp.Required(), mcp.Description("The PR message, one PR per line")),
	mcp.WithString("user_id", mcp.Description("User whose program list is used for fuzzy matching. Defaults to the authenticated user.")),
)

var toolNormalizeExercise = mcp.NewTool("normalize_exercise",
	mcp.WithDescription("Normalize a raw exercise name into its canonical form (e.g. 'db bentch' becomes 'dumbbell bench press')."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Raw exercise name")),
	mcp.WithNumber("weight", mcp.Description("Weight lifted, used to disambiguate bare 'squat' entries")),
)

var toolGetRecentPRs = mcp.NewTool("get_recent_prs",
	mcp.WithDescription("Get a user's most recent personal records, newest first."),
	mcp.WithString("user_id", mcp.Description("User to query. Defaults to the authenticated user.")),
	mcp.WithNumber("limit", mcp.Description("Number of PRs to return (1-100). Defaults to 5.")),
)

var toolGetBestE1RM = mcp.NewTool("get_best_e1rm",
	mcp.WithDescription("Get a user's strongest recorded set per exercise, ranked by estimated one-rep max. Bodyweight exercises rank by rep count."),
	mcp.WithString("user_id", mcp.Description("User to query. Defaults to the authenticated user.")),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Get a user's training program: the ordered list of canonical exercise names their PR lines are matched against."),
	mcp.WithString("user_id", mcp.Description("User to query. Defaults to the authenticated user.")),
)

// --- Tool handlers ---

func (h *handlers) resolveUser(ctx context.Context, req mcp.CallToolRequest) string {
	if id := req.GetString("user_id", ""); id != "" {
		return id
	}
	return UserIDFromContext(ctx)
}

func (h *handlers) logPR(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}

	userID := h.resolveUser(ctx, req)
	if userID == "" {
		return mcp.NewToolResultError("no user: pass user_id or authenticate"), nil
	}
	username := req.GetString("username", "")

	program, err := h.ds.GetProgramExercises(ctx, userID)
	if err != nil {
		h.log.Error("mcp log_pr program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	parsed := h.parser.ParseAll(message, program)
	rows := make([]models.PRRow, 0, len(parsed))
	for _, p := range parsed {
		rows = append(rows, storage.NewPRRow(p, userID, username, "", ""))
	}

	if len(rows) > 0 {
		if _, err := h.ds.InsertPRs(ctx, rows); err != nil {
			h.log.Error("mcp log_pr insert", "error", err)
			return mcp.NewToolResultError("insert failed: " + err.Error()), nil
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"logged": len(rows),
		"prs":    parsed,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) parsePR(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}

	var program []string
	if userID := h.resolveUser(ctx, req); userID != "" {
		program, err = h.ds.GetProgramExercises(ctx, userID)
		if err != nil {
			h.log.Error("mcp parse_pr program", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
	}

	parsed := h.parser.ParseAll(message, program)
	if parsed == nil {
		parsed = []models.ParsedPR{}
	}

	result, err := mcp.NewToolResultJSON(parsed)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) normalizeExercise(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	var weight *float64
	if w := req.GetFloat("weight", -1); w >= 0 {
		weight = &w
	}

	result, err := mcp.NewToolResultJSON(map[string]string{
		"raw":       name,
		"canonical": exercise.Normalize(name, weight),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentPRs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := h.resolveUser(ctx, req)
	if userID == "" {
		return mcp.NewToolResultError("no user: pass user_id or authenticate"), nil
	}

	limit := req.GetInt("limit", 5)
	if limit < 1 || limit > 100 {
		return mcp.NewToolResultError("limit must be 1-100"), nil
	}

	rows, err := h.ds.RecentPRs(ctx, userID, limit)
	if err != nil {
		h.log.Error("mcp get_recent_prs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBestE1RM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := h.resolveUser(ctx, req)
	if userID == "" {
		return mcp.NewToolResultError("no user: pass user_id or authenticate"), nil
	}

	best, err := h.ds.BestE1RMs(ctx, userID)
	if err != nil {
		h.log.Error("mcp get_best_e1rm", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(best)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := h.resolveUser(ctx, req)
	if userID == "" {
		return mcp.NewToolResultError("no user: pass user_id or authenticate"), nil
	}

	exercises, err := h.ds.GetProgramExercises(ctx, userID)
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"exercises": exercises})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
