package spaced_repetition

import "fmt"

// Rating represents the learner's assessment of recall quality.
type Rating int

const (
	// Failed to recall the answer
	Again Rating = iota + 1
	// Recalled with significant difficulty
	Hard
	// Recalled with some effort
	Good
	// Recalled effortlessly
	Easy
)

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

var ratingByName = map[string]Rating{
	"Again": Again,
	"Hard":  Hard,
	"Good":  Good,
	"Easy":  Easy,
}

// String returns the name of the rating ("Again", "Hard", "Good", "Easy").
// For invalid values it returns "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is one of the four recognized levels.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// ParseRating resolves a rating from its name.
func ParseRating(name string) (Rating, error) {
	r, ok := ratingByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, name)
	}
	return r, nil
}

// weight is the numeric quality used by the SM-2 ease formula: Again=0,
// Hard=1, Good=2, Easy=3. The raw integer never leaves this package.
func (r Rating) weight() int {
	return int(r) - 1
}
