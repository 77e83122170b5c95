package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/pkg/models"
)

// StatsRepository handles database operations for deck progress and the
// global study counters
type StatsRepository struct{}

// NewStatsRepository creates a new repository instance
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

// GetDeckProgress returns the stored progress for a deck. A deck that has
// never been studied yields zero counters. Mastered is a derived value and is
// not read from storage.
func (r *StatsRepository) GetDeckProgress(deck string) (*models.DeckProgress, error) {
	progress := models.DeckProgress{Deck: deck}
	err := DB.Get(&progress.Studied, "SELECT studied FROM deck_progress WHERE deck = $1", deck)
	if errors.Is(err, sql.ErrNoRows) {
		return &progress, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck progress: %v", err)
	}
	return &progress, nil
}

// GetAllDeckProgress returns progress for every deck that has been studied
func (r *StatsRepository) GetAllDeckProgress() ([]models.DeckProgress, error) {
	var rows []struct {
		Deck    string `db:"deck"`
		Studied int    `db:"studied"`
	}
	err := DB.Select(&rows, "SELECT deck, studied FROM deck_progress ORDER BY deck")
	if err != nil {
		return nil, fmt.Errorf("failed to get deck progress: %v", err)
	}

	progress := make([]models.DeckProgress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, models.DeckProgress{Deck: row.Deck, Studied: row.Studied})
	}
	return progress, nil
}

// SaveDeckProgress creates or updates the stored counters for a deck
func (r *StatsRepository) SaveDeckProgress(progress models.DeckProgress) error {
	var existing int
	err := DB.QueryRow("SELECT studied FROM deck_progress WHERE deck = $1", progress.Deck).Scan(&existing)

	if err == nil {
		_, err = DB.Exec(
			"UPDATE deck_progress SET studied = $1, updated_at = CURRENT_TIMESTAMP WHERE deck = $2",
			progress.Studied, progress.Deck)
		if err != nil {
			return fmt.Errorf("failed to update deck progress: %v", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up deck progress: %v", err)
	}

	_, err = DB.Exec("INSERT INTO deck_progress (deck, studied) VALUES ($1, $2)",
		progress.Deck, progress.Studied)
	if err != nil {
		return fmt.Errorf("failed to create deck progress: %v", err)
	}
	return nil
}

// GetGlobalStats returns the global counters, zeroed when none are stored yet
func (r *StatsRepository) GetGlobalStats() (*models.GlobalStats, error) {
	var stats models.GlobalStats
	err := DB.QueryRow("SELECT total_studied, current_streak, last_study_date FROM global_stats WHERE id = 1").
		Scan(&stats.TotalStudied, &stats.CurrentStreak, &stats.LastStudyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.GlobalStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %v", err)
	}
	return &stats, nil
}

// SaveGlobalStats stores the global counters
func (r *StatsRepository) SaveGlobalStats(stats models.GlobalStats) error {
	var exists int
	err := DB.QueryRow("SELECT id FROM global_stats WHERE id = 1").Scan(&exists)

	if err == nil {
		_, err = DB.Exec(
			`UPDATE global_stats SET
				total_studied = $1,
				current_streak = $2,
				last_study_date = $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = 1`,
			stats.TotalStudied, stats.CurrentStreak, stats.LastStudyDate)
		if err != nil {
			return fmt.Errorf("failed to update global stats: %v", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up global stats: %v", err)
	}

	_, err = DB.Exec(
		"INSERT INTO global_stats (id, total_studied, current_streak, last_study_date) VALUES (1, $1, $2, $3)",
		stats.TotalStudied, stats.CurrentStreak, stats.LastStudyDate)
	if err != nil {
		return fmt.Errorf("failed to create global stats: %v", err)
	}
	return nil
}
