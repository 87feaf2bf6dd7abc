// Package hotness tracks per-key hit scores used as the promotion signal.
package hotness

type Interface interface {
	// Touch records a hit on k and returns the updated score.
	Touch(k int64) float64
	// Score returns the current score for k without recording a hit.
	Score(k int64) float64
}
