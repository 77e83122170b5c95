package models

// DeckProgress tracks cumulative study progress for a single deck
type DeckProgress struct {
	Deck     string `json:"deck" db:"deck"`
	Studied  int    `json:"studied" db:"studied"`   // Cumulative cards touched, never decreases
	Mastered int    `json:"mastered" db:"mastered"` // Derived on read, never stored
}

// GlobalStats tracks progress across all decks
type GlobalStats struct {
	TotalStudied  int    `json:"total_studied" db:"total_studied"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
	LastStudyDate string `json:"last_study_date" db:"last_study_date"` // YYYY-MM-DD, empty before the first session
}

// ProgressStore is the full persisted learning state: per-card schedules,
// per-deck progress and the global counters. It is a plain value passed into
// and returned from session operations; physical persistence lives behind
// the database package.
type ProgressStore struct {
	Schedules map[string]CardSchedule `json:"schedules"` // Keyed by ScheduleKey
	Decks     map[string]DeckProgress `json:"decks"`
	Stats     GlobalStats             `json:"stats"`
}

// NewProgressStore returns an empty store, the state a fresh installation
// (or a failed load) starts from.
func NewProgressStore() ProgressStore {
	return ProgressStore{
		Schedules: make(map[string]CardSchedule),
		Decks:     make(map[string]DeckProgress),
	}
}

// ScheduleKey builds the map key for a card's schedule state.
func ScheduleKey(deck, cardID string) string {
	return deck + "/" + cardID
}
