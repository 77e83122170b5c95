package spaced_repetition

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// Minimum ease factor allowed by SM-2
const MinEaseFactor = 1.3

// Mastery thresholds: a card counts as mastered once it has survived three
// consecutive reviews and its ease factor is at the initial value or above.
const (
	masteredRepetitions = 3
	masteredEaseFactor  = 2.5
)

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Lowest rating counted as a successful recall
	PassThreshold Rating
	// Maximum repetition interval in days
	MaxInterval int
}

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold: Good,
		MaxInterval:   365,
	}
}

// Rate applies one rating event to a card's scheduling state and returns the
// updated state. It is a pure function: the input state is never modified, and
// an invalid rating returns ErrInvalidRating with the state untouched.
//
// The interval ladder is 1 day, then 6 days, then interval * easeFactor
// (rounded, capped at MaxInterval). The interval multiplication uses the ease
// factor from before this rating's ease adjustment. A rating below
// PassThreshold resets repetitions to zero and the interval to one day.
func (sm *SM2) Rate(state models.CardSchedule, rating Rating, now time.Time) (models.CardSchedule, error) {
	if !rating.IsValid() {
		return state, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	if rating >= sm.PassThreshold {
		switch state.Repetitions {
		case 0:
			state.Interval = 1
		case 1:
			state.Interval = 6
		default:
			next := int(math.Round(float64(state.Interval) * state.EaseFactor))
			if next < 1 {
				next = 1
			}
			if next > sm.MaxInterval {
				next = sm.MaxInterval
			}
			state.Interval = next
		}
		state.Repetitions++
	} else {
		// Lapse: back to the start of the ladder
		state.Repetitions = 0
		state.Interval = 1
	}

	// Ease adjustment runs in both branches; the 1.3 floor is applied last.
	q := float64(rating.weight())
	ef := state.EaseFactor + (0.1 - (3.0-q)*(0.08+(3.0-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	state.EaseFactor = ef

	state.NextReviewAt = now.AddDate(0, 0, state.Interval)
	reviewed := now
	state.LastReviewAt = &reviewed
	state.LastRating = rating.weight()

	return state, nil
}

// DueCards filters and orders the schedules due for review at the given time.
// Never-rated cards are always due. Priority order:
//  1. Cards that have never been reviewed
//  2. Cards with the lowest ease factor (hardest cards)
//  3. Cards with the earliest due date
func (sm *SM2) DueCards(schedules []models.CardSchedule, now time.Time) []models.CardSchedule {
	var due []models.CardSchedule
	for _, s := range schedules {
		if s.LastReviewAt == nil || !s.NextReviewAt.After(now) {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if (due[i].LastReviewAt == nil) != (due[j].LastReviewAt == nil) {
			return due[i].LastReviewAt == nil
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	return due
}

// IsMastered determines if a card is considered "mastered"
func (sm *SM2) IsMastered(state models.CardSchedule) bool {
	return state.Repetitions >= masteredRepetitions && state.EaseFactor >= masteredEaseFactor
}
