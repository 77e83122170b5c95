package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/pkg/models"
)

// ScheduleRepository handles database operations for card scheduling state
type ScheduleRepository struct{}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

// GetByDeckAndCard returns the schedule state for a specific card, or nil when
// the card has never been rated
func (r *ScheduleRepository) GetByDeckAndCard(deck, cardID string) (*models.CardSchedule, error) {
	var schedule models.CardSchedule
	err := DB.Get(&schedule, "SELECT * FROM card_schedules WHERE deck = $1 AND card_id = $2", deck, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card schedule: %v", err)
	}
	return &schedule, nil
}

// GetByDeck returns all schedule states for a deck
func (r *ScheduleRepository) GetByDeck(deck string) ([]models.CardSchedule, error) {
	var schedules []models.CardSchedule
	err := DB.Select(&schedules, "SELECT * FROM card_schedules WHERE deck = $1", deck)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck schedules: %v", err)
	}
	return schedules, nil
}

// GetAll returns every schedule state
func (r *ScheduleRepository) GetAll() ([]models.CardSchedule, error) {
	var schedules []models.CardSchedule
	err := DB.Select(&schedules, "SELECT * FROM card_schedules")
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %v", err)
	}
	return schedules, nil
}

// GetDueByDeck returns schedules in a deck that are due for review
func (r *ScheduleRepository) GetDueByDeck(deck string) ([]models.CardSchedule, error) {
	var schedules []models.CardSchedule

	var query string
	if Type() == "sqlite" {
		query = `
			SELECT * FROM card_schedules
			WHERE deck = $1 AND next_review_at <= datetime('now')
			ORDER BY next_review_at ASC
		`
	} else {
		query = `
			SELECT * FROM card_schedules
			WHERE deck = $1 AND next_review_at <= NOW()
			ORDER BY next_review_at ASC
		`
	}

	err := DB.Select(&schedules, query, deck)
	if err != nil {
		return nil, fmt.Errorf("failed to get due schedules: %v", err)
	}
	return schedules, nil
}

// Create inserts a new schedule record
func (r *ScheduleRepository) Create(schedule *models.CardSchedule) error {
	query := `
		INSERT INTO card_schedules (
			deck, card_id, ease_factor, interval, repetitions,
			next_review_at, last_review_at, last_rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if Type() == "sqlite" {
		result, err := DB.Exec(
			query,
			schedule.Deck,
			schedule.CardID,
			schedule.EaseFactor,
			schedule.Interval,
			schedule.Repetitions,
			schedule.NextReviewAt,
			schedule.LastReviewAt,
			schedule.LastRating,
		)
		if err != nil {
			return fmt.Errorf("failed to create schedule: %v", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		schedule.ID = int(id)

		return DB.QueryRow("SELECT created_at, updated_at FROM card_schedules WHERE id = $1",
			schedule.ID).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	}

	// PostgreSQL supports RETURNING
	return DB.QueryRow(
		query+" RETURNING id, created_at, updated_at",
		schedule.Deck,
		schedule.CardID,
		schedule.EaseFactor,
		schedule.Interval,
		schedule.Repetitions,
		schedule.NextReviewAt,
		schedule.LastReviewAt,
		schedule.LastRating,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
}

// Update modifies an existing schedule record
func (r *ScheduleRepository) Update(schedule *models.CardSchedule) error {
	_, err := DB.Exec(
		`UPDATE card_schedules SET
			ease_factor = $1,
			interval = $2,
			repetitions = $3,
			next_review_at = $4,
			last_review_at = $5,
			last_rating = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		schedule.EaseFactor,
		schedule.Interval,
		schedule.Repetitions,
		schedule.NextReviewAt,
		schedule.LastReviewAt,
		schedule.LastRating,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %v", err)
	}

	return DB.QueryRow("SELECT updated_at FROM card_schedules WHERE id = $1",
		schedule.ID).Scan(&schedule.UpdatedAt)
}

// CreateOrUpdate creates or updates the schedule record for a card
func (r *ScheduleRepository) CreateOrUpdate(schedule *models.CardSchedule) error {
	// Check whether a record already exists for this deck and card
	var existingID int
	err := DB.QueryRow("SELECT id FROM card_schedules WHERE deck = $1 AND card_id = $2",
		schedule.Deck, schedule.CardID).Scan(&existingID)

	if err == nil {
		schedule.ID = existingID
		return r.Update(schedule)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up schedule: %v", err)
	}

	return r.Create(schedule)
}

// Delete removes a schedule record
func (r *ScheduleRepository) Delete(id int) error {
	_, err := DB.Exec("DELETE FROM card_schedules WHERE id = $1", id)
	return err
}

// GetDeckStatistics returns summary statistics for a deck's schedules
func (r *ScheduleRepository) GetDeckStatistics(deck string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalCount int
	err := DB.Get(&totalCount, "SELECT COUNT(*) FROM card_schedules WHERE deck = $1", deck)
	if err != nil {
		return nil, err
	}
	stats["cards_in_progress"] = totalCount

	var dueQuery string
	if Type() == "sqlite" {
		dueQuery = "SELECT COUNT(*) FROM card_schedules WHERE deck = $1 AND next_review_at <= datetime('now')"
	} else {
		dueQuery = "SELECT COUNT(*) FROM card_schedules WHERE deck = $1 AND next_review_at <= NOW()"
	}
	var dueNow int
	if err := DB.Get(&dueNow, dueQuery, deck); err != nil {
		return nil, err
	}
	stats["due_now"] = dueNow

	var avgEF float64
	err = DB.Get(&avgEF,
		"SELECT COALESCE(AVG(ease_factor), 2.5) FROM card_schedules WHERE deck = $1", deck)
	if err != nil {
		return nil, err
	}
	stats["avg_ease_factor"] = avgEF

	return stats, nil
}
