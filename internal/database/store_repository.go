package database

import (
	"fmt"
	"log"

	"github.com/example/flashdeck/pkg/models"
)

// StoreRepository loads and saves the full ProgressStore value. The study
// engine only sees the store as a plain value; this repository is the narrow
// persistence boundary behind it.
type StoreRepository struct {
	schedules *ScheduleRepository
	stats     *StatsRepository
}

// NewStoreRepository creates a new repository instance
func NewStoreRepository() *StoreRepository {
	return &StoreRepository{
		schedules: NewScheduleRepository(),
		stats:     NewStatsRepository(),
	}
}

// Load reads the complete progress state. A load failure is not fatal for the
// caller: it is logged and an empty store is returned so a session can start
// from scratch.
func (r *StoreRepository) Load() models.ProgressStore {
	store := models.NewProgressStore()

	schedules, err := r.schedules.GetAll()
	if err != nil {
		log.Printf("Failed to load schedules, starting from empty progress: %v", err)
		return store
	}
	for _, s := range schedules {
		store.Schedules[models.ScheduleKey(s.Deck, s.CardID)] = s
	}

	decks, err := r.stats.GetAllDeckProgress()
	if err != nil {
		log.Printf("Failed to load deck progress, starting from empty progress: %v", err)
		return store
	}
	for _, d := range decks {
		store.Decks[d.Deck] = d
	}

	stats, err := r.stats.GetGlobalStats()
	if err != nil {
		log.Printf("Failed to load global stats, starting from empty progress: %v", err)
		return store
	}
	store.Stats = *stats

	return store
}

// SaveRating persists the pieces touched by a single rating event: the card's
// schedule, its deck's progress and the global counters. The in-memory store
// is the source of truth; a failed save is returned for the caller to retry.
func (r *StoreRepository) SaveRating(store models.ProgressStore, deck, cardID string) error {
	schedule, ok := store.Schedules[models.ScheduleKey(deck, cardID)]
	if !ok {
		return fmt.Errorf("no schedule state for card %s in deck %s", cardID, deck)
	}
	if err := r.schedules.CreateOrUpdate(&schedule); err != nil {
		return err
	}
	// CreateOrUpdate fills in the row ID and timestamps
	store.Schedules[models.ScheduleKey(deck, cardID)] = schedule

	if progress, ok := store.Decks[deck]; ok {
		if err := r.stats.SaveDeckProgress(progress); err != nil {
			return err
		}
	}

	return r.stats.SaveGlobalStats(store.Stats)
}

// Save persists the entire store. Used by bulk operations such as imports and
// migrations; per-rating persistence goes through SaveRating.
func (r *StoreRepository) Save(store models.ProgressStore) error {
	for _, schedule := range store.Schedules {
		s := schedule
		if err := r.schedules.CreateOrUpdate(&s); err != nil {
			return err
		}
	}
	for _, progress := range store.Decks {
		if err := r.stats.SaveDeckProgress(progress); err != nil {
			return err
		}
	}
	return r.stats.SaveGlobalStats(store.Stats)
}
