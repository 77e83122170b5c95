package models

import "time"

// CardSchedule tracks the SM-2 scheduling state of a single card
type CardSchedule struct {
	ID           int        `json:"id" db:"id"`
	Deck         string     `json:"deck" db:"deck"`
	CardID       string     `json:"card_id" db:"card_id"`
	EaseFactor   float64    `json:"ease_factor" db:"ease_factor"`     // SM-2 EF parameter, never below 1.3
	Interval     int        `json:"interval" db:"interval"`           // Current interval in days
	Repetitions  int        `json:"repetitions" db:"repetitions"`     // Consecutive successful recalls since last lapse
	NextReviewAt time.Time  `json:"next_review_at" db:"next_review_at"`
	LastReviewAt *time.Time `json:"last_review_at" db:"last_review_at"` // Nil before the first rating
	LastRating   int        `json:"last_rating" db:"last_rating"`       // Numeric weight of the most recent rating
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewCardSchedule returns the default scheduling state a card carries
// before its first rating: ease factor 2.5, no interval, due immediately.
func NewCardSchedule(deck, cardID string) CardSchedule {
	return CardSchedule{
		Deck:       deck,
		CardID:     cardID,
		EaseFactor: 2.5,
		Interval:   0,
	}
}
