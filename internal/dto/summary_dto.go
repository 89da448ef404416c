package dto

import "time"

// LevelSummary aggregates outcomes for one difficulty level.
type LevelSummary struct {
	Level     int `json:"level"`
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Errors    int `json:"errors"`
	Pending   int `json:"pending"`
}

// SummaryResponse aggregates one user's grading outcomes across the
// benchmark set.
type SummaryResponse struct {
	UserID      string         `json:"user_id"`
	Total       int            `json:"total"`
	Attempted   int            `json:"attempted"`
	ByStatus    map[string]int `json:"by_status"`
	ByLevel     []LevelSummary `json:"by_level"`
	GeneratedAt time.Time      `json:"generated_at"`
}
