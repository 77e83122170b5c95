// Package study orchestrates a flashcard review session: it pulls the due
// queue from a card source, runs each rating through the SM-2 engine, folds
// the results into session and deck counters, and hands the updated progress
// to the storage collaborator after every event.
package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/flashdeck/internal/session"
	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/pkg/models"
)

// ErrEmptyDeck is returned when a session is started against a card source
// yielding zero cards.
var ErrEmptyDeck = errors.New("study: deck has no cards")

// CardSource supplies the ordered cards of a deck. Storage format is the
// collaborator's concern.
type CardSource interface {
	GetByDeck(deck string) ([]models.Card, error)
}

// ProgressStorage persists the progress store. Load never fails hard: a fresh
// or unreadable store comes back empty. SaveRating persists the state touched
// by one rating event.
type ProgressStorage interface {
	Load() models.ProgressStore
	SaveRating(store models.ProgressStore, deck, cardID string) error
}

// Engine runs study sessions over a card source and progress storage.
type Engine struct {
	sm2     *spaced_repetition.SM2
	source  CardSource
	storage ProgressStorage
	now     func() time.Time
}

// New creates a study engine with default SM-2 settings.
func New(source CardSource, storage ProgressStorage) *Engine {
	return &Engine{
		sm2:     spaced_repetition.NewSM2(),
		source:  source,
		storage: storage,
		now:     time.Now,
	}
}

// Session holds the state of one active study run over a deck.
type Session struct {
	Deck  string
	Queue []models.Card
	Store models.ProgressStore
	Stats models.SessionStats

	pos       int
	lastRated string // card ID of the most recent rating, for save retries
}

// StartSession loads progress and builds the due queue for a deck. The queue
// holds only cards due at session start, ordered never-rated first, then
// hardest (lowest ease factor), then most overdue. A deck with zero cards
// returns ErrEmptyDeck.
func (e *Engine) StartSession(deck string) (*Session, error) {
	cards, err := e.source.GetByDeck(deck)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck %s: %v", deck, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDeck, deck)
	}

	store := e.storage.Load()
	now := e.now()

	byID := make(map[string]models.Card, len(cards))
	schedules := make([]models.CardSchedule, 0, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
		s, ok := store.Schedules[models.ScheduleKey(deck, card.ID)]
		if !ok {
			s = models.NewCardSchedule(deck, card.ID)
		}
		schedules = append(schedules, s)
	}

	queue := make([]models.Card, 0, len(cards))
	for _, s := range e.sm2.DueCards(schedules, now) {
		queue = append(queue, byID[s.CardID])
	}

	return &Session{
		Deck:  deck,
		Queue: queue,
		Store: store,
		Stats: session.Start(deck, now),
	}, nil
}

// Current returns the card up for review, or nil when the queue is exhausted.
func (s *Session) Current() *models.Card {
	if s.pos >= len(s.Queue) {
		return nil
	}
	card := s.Queue[s.pos]
	return &card
}

// Rate applies a rating to the current card. The scheduling state, session
// counters, deck progress, global totals and day streak are all updated in
// memory first, then persisted. A failed save leaves the in-memory state
// intact and returns the error for the caller to retry with RetrySave.
func (e *Engine) Rate(s *Session, rating spaced_repetition.Rating) (*Snapshot, error) {
	card := s.Current()
	if card == nil {
		return nil, fmt.Errorf("study: no card to rate in deck %s", s.Deck)
	}

	key := models.ScheduleKey(s.Deck, card.ID)
	state, ok := s.Store.Schedules[key]
	if !ok {
		// First rating of this card: start from the default state
		state = models.NewCardSchedule(s.Deck, card.ID)
	}

	next, err := e.sm2.Rate(state, rating, e.now())
	if err != nil {
		// Invalid rating: nothing was mutated, the caller retries the input
		return nil, err
	}

	s.Store.Schedules[key] = next
	session.RecordRating(&s.Stats, rating)

	progress := s.Store.Decks[s.Deck]
	progress.Deck = s.Deck
	progress.Studied++
	s.Store.Decks[s.Deck] = progress

	s.Store.Stats.TotalStudied++
	session.UpdateStreak(&s.Store.Stats, e.now())

	s.pos++
	s.lastRated = card.ID

	snap := e.snapshot(s)
	if err := e.storage.SaveRating(s.Store, s.Deck, card.ID); err != nil {
		return snap, fmt.Errorf("failed to save progress: %v", err)
	}
	return snap, nil
}

// RetrySave re-attempts persistence of the most recent rating after a save
// failure.
func (e *Engine) RetrySave(s *Session) error {
	if s.lastRated == "" {
		return nil
	}
	return e.storage.SaveRating(s.Store, s.Deck, s.lastRated)
}

// End closes the session and returns its summary. The store keeps everything
// already rated; abandoning a session without calling End loses nothing.
func (e *Engine) End(s *Session) models.SessionSummary {
	return session.End(s.Stats)
}

// Snapshot is the render state emitted after each event: enough for a
// presentation layer to show the current card, position and progress.
type Snapshot struct {
	Card            *models.Card // Next card to present, nil when done
	Position        int          // Cards rated so far this session
	Total           int          // Session queue length
	ProgressPercent int
	DeckStudied     int // Cumulative ratings recorded against this deck
	DeckMastered    int // Derived mastery count for this deck
	Streak          int
}

func (e *Engine) snapshot(s *Session) *Snapshot {
	percent := 0
	if len(s.Queue) > 0 {
		percent = s.pos * 100 / len(s.Queue)
	}
	return &Snapshot{
		Card:            s.Current(),
		Position:        s.pos,
		Total:           len(s.Queue),
		ProgressPercent: percent,
		DeckStudied:     s.Store.Decks[s.Deck].Studied,
		DeckMastered:    session.MasteredCountForDeck(e.sm2, s.Store.Schedules, s.Deck),
		Streak:          s.Store.Stats.CurrentStreak,
	}
}
