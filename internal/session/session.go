// Package session aggregates rating events into per-session counters,
// per-deck progress and the global day streak.
package session

import (
	"math"
	"time"

	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/pkg/models"
)

// Layout for GlobalStats.LastStudyDate
const dateLayout = "2006-01-02"

// Start begins a new study session for a deck.
func Start(deck string, now time.Time) models.SessionStats {
	return models.SessionStats{
		Deck:      deck,
		StartedAt: now,
	}
}

// RecordRating folds one rating event into the session counters. Good and
// Easy count as correct recalls.
func RecordRating(stats *models.SessionStats, rating spaced_repetition.Rating) {
	stats.StudiedCount++
	if rating >= spaced_repetition.Good {
		stats.CorrectCount++
	}
}

// End computes the summary for a finished session. Accuracy is a rounded
// percentage, zero when nothing was studied.
func End(stats models.SessionStats) models.SessionSummary {
	accuracy := 0
	if stats.StudiedCount > 0 {
		accuracy = int(math.Round(float64(stats.CorrectCount) / float64(stats.StudiedCount) * 100))
	}
	return models.SessionSummary{
		Deck:     stats.Deck,
		Studied:  stats.StudiedCount,
		Accuracy: accuracy,
	}
}

// UpdateStreak advances the consecutive-day study streak. Studying again on
// the same day leaves the streak alone; studying on the following day extends
// it; any gap (or the first session ever) restarts it at one.
func UpdateStreak(stats *models.GlobalStats, today time.Time) {
	day := today.Format(dateLayout)
	switch stats.LastStudyDate {
	case day:
		return
	case today.AddDate(0, 0, -1).Format(dateLayout):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	stats.LastStudyDate = day
}

// MasteredCount derives the number of mastered cards from the full schedule
// map. Kept as a pure derivation rather than a stored counter so it can never
// drift from the underlying state.
func MasteredCount(sm *spaced_repetition.SM2, schedules map[string]models.CardSchedule) int {
	count := 0
	for _, s := range schedules {
		if sm.IsMastered(s) {
			count++
		}
	}
	return count
}

// MasteredCountForDeck is MasteredCount restricted to one deck.
func MasteredCountForDeck(sm *spaced_repetition.SM2, schedules map[string]models.CardSchedule, deck string) int {
	count := 0
	for _, s := range schedules {
		if s.Deck == deck && sm.IsMastered(s) {
			count++
		}
	}
	return count
}
