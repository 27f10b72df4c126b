package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/prtrack/internal/models"
	"github.com/google/uuid"
)

// InsertPRs batch-inserts PR rows. Returns count inserted.
func (db *DB) InsertPRs(ctx context.Context, rows []models.PRRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO prs (id, user_id, username, exercise, raw_exercise, weight, reps,
	 estimated_1rm, match_score, used_fuzzy, message_id, channel_id, created_at) VALUES `
	args := make([]any, 0, len(rows)*13)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 13
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
		))
		args = append(args, r.ID, r.UserID, r.Username, r.Exercise, r.RawExercise,
			r.Weight, r.Reps, r.Estimated1RM, r.MatchScore, r.UsedFuzzy,
			r.MessageID, r.ChannelID, r.CreatedAt)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting prs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteMessagePRs removes all PR rows logged from one message. Returns
// the number of rows removed.
func (db *DB) DeleteMessagePRs(ctx context.Context, messageID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM prs WHERE message_id = $1`, messageID)
	if err != nil {
		return 0, fmt.Errorf("deleting message prs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ReplaceMessagePRs swaps the PRs recorded for a message with a fresh
// parse, transactionally. An edited message that no longer parses ends
// up with no rows.
func (db *DB) ReplaceMessagePRs(ctx context.Context, messageID string, rows []models.PRRow) (deleted int64, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM prs WHERE message_id = $1`, messageID)
	if err != nil {
		return 0, fmt.Errorf("deleting message prs: %w", err)
	}
	deleted = tag.RowsAffected()

	for _, r := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO prs (id, user_id, username, exercise, raw_exercise, weight, reps,
			 estimated_1rm, match_score, used_fuzzy, message_id, channel_id, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			r.ID, r.UserID, r.Username, r.Exercise, r.RawExercise,
			r.Weight, r.Reps, r.Estimated1RM, r.MatchScore, r.UsedFuzzy,
			r.MessageID, r.ChannelID, r.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting replacement pr: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing tx: %w", err)
	}
	return deleted, nil
}

// RecentPRs retrieves a user's most recent PRs, newest first.
func (db *DB) RecentPRs(ctx context.Context, userID string, limit int) ([]models.PRRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, username, exercise, raw_exercise, weight, reps,
		 estimated_1rm, match_score, used_fuzzy, message_id, channel_id, created_at
		 FROM prs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent prs: %w", err)
	}
	defer rows.Close()

	var out []models.PRRow
	for rows.Next() {
		var r models.PRRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Username, &r.Exercise, &r.RawExercise,
			&r.Weight, &r.Reps, &r.Estimated1RM, &r.MatchScore, &r.UsedFuzzy,
			&r.MessageID, &r.ChannelID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pr row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountPRs returns the total number of stored PRs.
func (db *DB) CountPRs(ctx context.Context) (int64, error) {
	var count int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM prs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting prs: %w", err)
	}
	return count, nil
}

// BestE1RMs returns the strongest set per canonical exercise for a user.
// Bodyweight entries (estimated_1rm = 0) rank by rep count instead, so
// they are reported with the highest-rep set.
func (db *DB) BestE1RMs(ctx context.Context, userID string) ([]models.BestE1RM, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT ON (exercise) exercise, weight, reps, estimated_1rm, created_at
		 FROM prs WHERE user_id = $1
		 ORDER BY exercise, estimated_1rm DESC, reps DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying best e1rms: %w", err)
	}
	defer rows.Close()

	var out []models.BestE1RM
	for rows.Next() {
		var b models.BestE1RM
		if err := rows.Scan(&b.Exercise, &b.Weight, &b.Reps, &b.Estimated1RM, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning best e1rm: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// NewPRRow builds a PRRow from a parse result and message metadata.
func NewPRRow(parsed models.ParsedPR, userID, username, messageID, channelID string) models.PRRow {
	return models.PRRow{
		ID:           uuid.New(),
		UserID:       userID,
		Username:     username,
		Exercise:     parsed.CanonicalExercise,
		RawExercise:  parsed.RawExercise,
		Weight:       parsed.Weight,
		Reps:         parsed.Reps,
		Estimated1RM: parsed.Estimated1RM,
		MatchScore:   parsed.MatchScore,
		UsedFuzzy:    parsed.UsedFuzzy,
		MessageID:    messageID,
		ChannelID:    channelID,
		CreatedAt:    time.Now().UTC(),
	}
}
