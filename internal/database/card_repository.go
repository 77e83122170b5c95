package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flashdeck/pkg/models"
)

// CardRepository handles database operations for cards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// GetAll returns all cards
func (r *CardRepository) GetAll() ([]models.Card, error) {
	var cards []models.Card
	err := DB.Select(&cards, "SELECT * FROM cards ORDER BY deck, position")
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %v", err)
	}
	return cards, nil
}

// GetByID returns a card by ID
func (r *CardRepository) GetByID(id string) (*models.Card, error) {
	var card models.Card
	err := DB.Get(&card, "SELECT * FROM cards WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get card by ID: %v", err)
	}
	return &card, nil
}

// GetByDeck returns the cards of a deck in deck order
func (r *CardRepository) GetByDeck(deck string) ([]models.Card, error) {
	var cards []models.Card
	err := DB.Select(&cards, "SELECT * FROM cards WHERE deck = $1 ORDER BY position, prompt", deck)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards by deck: %v", err)
	}
	return cards, nil
}

// GetDecks returns the distinct deck names
func (r *CardRepository) GetDecks() ([]string, error) {
	var decks []string
	err := DB.Select(&decks, "SELECT DISTINCT deck FROM cards ORDER BY deck")
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %v", err)
	}
	return decks, nil
}

// FindByPrompt returns the card with the given prompt in a deck, or nil when
// no such card exists
func (r *CardRepository) FindByPrompt(deck, prompt string) (*models.Card, error) {
	var card models.Card
	err := DB.Get(&card, "SELECT * FROM cards WHERE deck = $1 AND prompt = $2", deck, prompt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card by prompt: %v", err)
	}
	return &card, nil
}

// Create inserts a new card
func (r *CardRepository) Create(card *models.Card) error {
	query := `
		INSERT INTO cards (id, deck, prompt, answer, topic, difficulty, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := DB.Exec(
		query,
		card.ID,
		card.Deck,
		card.Prompt,
		card.Answer,
		card.Topic,
		card.Difficulty,
		card.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %v", err)
	}

	return DB.QueryRow("SELECT created_at, updated_at FROM cards WHERE id = $1",
		card.ID).Scan(&card.CreatedAt, &card.UpdatedAt)
}

// Update modifies an existing card
func (r *CardRepository) Update(card *models.Card) error {
	_, err := DB.Exec(`
		UPDATE cards SET
			answer = $1,
			topic = $2,
			difficulty = $3,
			position = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`,
		card.Answer,
		card.Topic,
		card.Difficulty,
		card.Position,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %v", err)
	}
	return DB.QueryRow("SELECT updated_at FROM cards WHERE id = $1", card.ID).Scan(&card.UpdatedAt)
}

// Delete removes a card and its schedule state
func (r *CardRepository) Delete(id string) error {
	if _, err := DB.Exec("DELETE FROM card_schedules WHERE card_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete card schedule: %v", err)
	}
	_, err := DB.Exec("DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %v", err)
	}
	return nil
}

// CountByDeck returns the number of cards in a deck
func (r *CardRepository) CountByDeck(deck string) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM cards WHERE deck = $1", deck)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %v", err)
	}
	return count, nil
}
