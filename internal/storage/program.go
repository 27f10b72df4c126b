package storage

import (
	"context"
	"fmt"
)

// GetProgramExercises returns a user's canonical program exercise names
// in workout order (the order tie-breaking depends on).
func (db *DB) GetProgramExercises(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise FROM program_exercises WHERE user_id = $1 ORDER BY position`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying program exercises: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning program exercise: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceProgram swaps a user's program for the given ordered exercise
// list, transactionally. Names are stored as given; the caller is
// responsible for normalizing them into the canonical vocabulary first.
func (db *DB) ReplaceProgram(ctx context.Context, userID string, exercises []string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM program_exercises WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing program: %w", err)
	}

	for i, name := range exercises {
		_, err := tx.Exec(ctx,
			`INSERT INTO program_exercises (user_id, position, exercise) VALUES ($1,$2,$3)`,
			userID, i, name)
		if err != nil {
			return fmt.Errorf("inserting program exercise: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}
	return nil
}
