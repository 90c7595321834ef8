package montage

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTempo is returned for a tempo that is not a finite number > 0.
	ErrInvalidTempo = errors.New("tempo must be > 0")
	// ErrEmptyPool is for callers that need at least one selection. Select
	// itself never returns it.
	ErrEmptyPool = errors.New("no clips selected")
	// ErrNoRand is returned when Select is given no random source.
	ErrNoRand = errors.New("montage: nil random source")
)

// SecondsPerBeat converts a tempo in BPM to the length of one beat.
func SecondsPerBeat(tempoBPM float64) (float64, error) {
	if math.IsNaN(tempoBPM) || math.IsInf(tempoBPM, 0) || tempoBPM <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidTempo, tempoBPM)
	}
	return 60 / tempoBPM, nil
}

// Beats reports how many beats a span of seconds covers at sbp, rounded to
// the nearest whole beat.
func Beats(seconds, sbp float64) int {
	if sbp <= 0 {
		return 0
	}
	return int(math.Round(seconds / sbp))
}
