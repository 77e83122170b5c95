package models

import "time"

// SessionStats tracks counters for one active study session
type SessionStats struct {
	Deck         string    `json:"deck"`
	StudiedCount int       `json:"studied_count"` // Incremented once per rated card
	CorrectCount int       `json:"correct_count"` // Incremented for Good/Easy ratings
	StartedAt    time.Time `json:"started_at"`
}

// SessionSummary is the result handed back when a session ends
type SessionSummary struct {
	Deck     string `json:"deck"`
	Studied  int    `json:"studied"`
	Accuracy int    `json:"accuracy"` // Percentage 0-100, rounded
}
