package mcp

import (
	"context"

	"github.com/claude/prtrack/internal/models"
	"github.com/claude/prtrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetProgramExercises(ctx context.Context, userID string) ([]string, error)
	RecentPRs(ctx context.Context, userID string, limit int) ([]models.PRRow, error)
	BestE1RMs(ctx context.Context, userID string) ([]models.BestE1RM, error)
	InsertPRs(ctx context.Context, rows []models.PRRow) (int64, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
