package spaced_repetition

import "errors"

// ErrInvalidRating is returned when a rating outside the four recognized
// levels is supplied. Check with errors.Is.
var ErrInvalidRating = errors.New("spaced_repetition: invalid rating")
