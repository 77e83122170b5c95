package spaced_repetition

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

const epsilon = 1e-9

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func newState(ef float64, interval, reps int) models.CardSchedule {
	s := models.NewCardSchedule("js", "card-1")
	s.EaseFactor = ef
	s.Interval = interval
	s.Repetitions = reps
	return s
}

func TestRateFirstGood(t *testing.T) {
	sm := NewSM2()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	got, err := sm.Rate(newState(2.5, 0, 0), Good, now)
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if got.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", got.Repetitions)
	}
	if got.Interval != 1 {
		t.Errorf("Interval = %d, want 1", got.Interval)
	}
	// Good on EF 2.5: delta is 0.1 - 1*(0.08+1*0.02) = 0, EF unchanged.
	assertFloat(t, "EaseFactor", got.EaseFactor, 2.5)
	if want := now.AddDate(0, 0, 1); !got.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, want)
	}
}

func TestRateSecondGood(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.5, 1, 1), Good, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if got.Interval != 6 {
		t.Errorf("Interval = %d, want 6", got.Interval)
	}
	if got.Repetitions != 2 {
		t.Errorf("Repetitions = %d, want 2", got.Repetitions)
	}
}

func TestRateThirdGood(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.5, 6, 2), Good, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	// round(6 * 2.5) = 15
	if got.Interval != 15 {
		t.Errorf("Interval = %d, want 15", got.Interval)
	}
	if got.Repetitions != 3 {
		t.Errorf("Repetitions = %d, want 3", got.Repetitions)
	}
}

func TestRateAgainResets(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.6, 15, 3), Again, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if got.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", got.Repetitions)
	}
	if got.Interval != 1 {
		t.Errorf("Interval = %d, want 1", got.Interval)
	}
	// 2.6 + (0.1 - 3*(0.08+3*0.02)) = 2.6 - 0.32 = 2.28
	assertFloat(t, "EaseFactor", got.EaseFactor, 2.28)
}

func TestRateHardResets(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.5, 6, 2), Hard, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if got.Repetitions != 0 || got.Interval != 1 {
		t.Errorf("got reps=%d interval=%d, want 0 and 1", got.Repetitions, got.Interval)
	}
}

func TestRateEaseFloor(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		name   string
		ef     float64
		rating Rating
		want   float64
	}{
		{"again at minimum stays at minimum", 1.3, Again, 1.3},
		{"again near minimum clamps", 1.5, Again, 1.3},
		{"hard drops by 0.14", 2.0, Hard, 1.86},
		{"easy rewards by 0.1", 2.5, Easy, 2.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sm.Rate(newState(tt.ef, 3, 2), tt.rating, time.Now())
			if err != nil {
				t.Fatalf("Rate returned error: %v", err)
			}
			assertFloat(t, "EaseFactor", got.EaseFactor, tt.want)
			if got.EaseFactor < MinEaseFactor {
				t.Errorf("EaseFactor %.4f below floor", got.EaseFactor)
			}
		})
	}
}

// The interval multiplication must use the ease factor from before the ease
// adjustment: Easy bumps EF by 0.1, but the new interval still reflects the
// old EF.
func TestRateIntervalUsesPriorEase(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.0, 10, 2), Easy, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	// round(10 * 2.0) = 20, not round(10 * 2.1) = 21
	if got.Interval != 20 {
		t.Errorf("Interval = %d, want 20", got.Interval)
	}
	assertFloat(t, "EaseFactor", got.EaseFactor, 2.1)
}

func TestRateMaxIntervalCap(t *testing.T) {
	sm := NewSM2()
	got, err := sm.Rate(newState(2.5, 300, 5), Good, time.Now())
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if got.Interval != sm.MaxInterval {
		t.Errorf("Interval = %d, want cap %d", got.Interval, sm.MaxInterval)
	}
}

func TestRateInvalidRating(t *testing.T) {
	sm := NewSM2()
	start := newState(2.5, 6, 2)
	got, err := sm.Rate(start, Rating(9), time.Now())
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("err = %v, want ErrInvalidRating", err)
	}
	if got != start {
		t.Errorf("state mutated on invalid rating: %+v", got)
	}
}

func TestRateIsPure(t *testing.T) {
	sm := NewSM2()
	start := newState(2.5, 6, 2)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := sm.Rate(start, Good, now)
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	second, err := sm.Rate(start, Good, now)
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if first.Interval != second.Interval || first.Repetitions != second.Repetitions ||
		first.EaseFactor != second.EaseFactor || !first.NextReviewAt.Equal(second.NextReviewAt) {
		t.Errorf("repeated Rate on same input diverged: %+v vs %+v", first, second)
	}
	if start.Repetitions != 2 || start.Interval != 6 {
		t.Errorf("input state mutated: %+v", start)
	}
}

func TestRateEaseMonotonicInRating(t *testing.T) {
	sm := NewSM2()
	start := newState(2.2, 8, 2)
	now := time.Now()

	good, err := sm.Rate(start, Good, now)
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	easy, err := sm.Rate(start, Easy, now)
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if easy.EaseFactor < good.EaseFactor {
		t.Errorf("Easy EF %.4f < Good EF %.4f", easy.EaseFactor, good.EaseFactor)
	}
}

func TestRateEaseNeverBelowFloor(t *testing.T) {
	sm := NewSM2()
	state := newState(2.5, 0, 0)
	now := time.Now()

	// Hammer the card with failures; EF must stay at or above 1.3.
	for i := 0; i < 20; i++ {
		var err error
		state, err = sm.Rate(state, Again, now)
		if err != nil {
			t.Fatalf("Rate returned error: %v", err)
		}
		if state.EaseFactor < MinEaseFactor {
			t.Fatalf("iteration %d: EaseFactor %.4f below 1.3", i, state.EaseFactor)
		}
		if state.Interval < 1 {
			t.Fatalf("iteration %d: Interval %d below 1", i, state.Interval)
		}
	}
}

func TestDueCardsOrdering(t *testing.T) {
	sm := NewSM2()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	earlier := now.AddDate(0, 0, -5)

	reviewed := func(id string, ef float64, due time.Time) models.CardSchedule {
		s := models.NewCardSchedule("js", id)
		s.EaseFactor = ef
		s.Repetitions = 2
		s.NextReviewAt = due
		s.LastReviewAt = &past
		return s
	}

	fresh := models.NewCardSchedule("js", "fresh")
	future := reviewed("future", 2.5, now.AddDate(0, 0, 3))
	hard := reviewed("hard", 1.4, past)
	easyOld := reviewed("easy-old", 2.5, earlier)
	easyNew := reviewed("easy-new", 2.5, past)

	due := sm.DueCards([]models.CardSchedule{future, easyNew, hard, easyOld, fresh}, now)

	wantOrder := []string{"fresh", "hard", "easy-old", "easy-new"}
	if len(due) != len(wantOrder) {
		t.Fatalf("len(due) = %d, want %d", len(due), len(wantOrder))
	}
	for i, id := range wantOrder {
		if due[i].CardID != id {
			t.Errorf("due[%d] = %s, want %s", i, due[i].CardID, id)
		}
	}
}

func TestIsMastered(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		name string
		ef   float64
		reps int
		want bool
	}{
		{"three reps at initial ease", 2.5, 3, true},
		{"many reps high ease", 2.8, 7, true},
		{"too few reps", 2.6, 2, false},
		{"ease below threshold", 2.3, 5, false},
		{"fresh card", 2.5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sm.IsMastered(newState(tt.ef, 10, tt.reps)); got != tt.want {
				t.Errorf("IsMastered = %v, want %v", got, tt.want)
			}
		})
	}
}
