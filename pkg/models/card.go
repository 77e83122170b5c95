package models

import "time"

// Card represents a single flashcard to be studied
type Card struct {
	ID         string    `json:"id" db:"id"`
	Deck       string    `json:"deck" db:"deck"`
	Prompt     string    `json:"prompt" db:"prompt"`
	Answer     string    `json:"answer" db:"answer"`
	Topic      string    `json:"topic" db:"topic"`
	Difficulty int       `json:"difficulty" db:"difficulty"` // 1-5 scale of difficulty
	Position   int       `json:"position" db:"position"`     // Order within the deck
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
