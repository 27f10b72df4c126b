package models

import (
	"time"

	"github.com/google/uuid"
)

// ParsedPR is the structured result of parsing one PR line. Immutable
// once built; the parser hands it to storage and never touches it again.
type ParsedPR struct {
	RawExercise       string  `json:"raw_exercise"`
	CanonicalExercise string  `json:"canonical_exercise"`
	Weight            float64 `json:"weight"`
	Reps              int     `json:"reps"`
	Estimated1RM      float64 `json:"estimated_1rm"`
	MatchScore        int     `json:"match_score"`
	UsedFuzzy         bool    `json:"used_fuzzy"`
}

// PRRow is a row ready for insertion into the prs table.
type PRRow struct {
	ID                uuid.UUID `json:"id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	Exercise          string    `json:"exercise"`
	RawExercise       string    `json:"raw_exercise"`
	Weight            float64   `json:"weight"`
	Reps              int       `json:"reps"`
	Estimated1RM      float64   `json:"estimated_1rm"`
	MatchScore        int       `json:"match_score"`
	UsedFuzzy         bool      `json:"used_fuzzy"`
	MessageID         string    `json:"message_id"`
	ChannelID         string    `json:"channel_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// BestE1RM is the strongest logged set per canonical exercise.
type BestE1RM struct {
	Exercise     string    `json:"exercise"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Estimated1RM float64   `json:"estimated_1rm"`
	CreatedAt    time.Time `json:"created_at"`
}
