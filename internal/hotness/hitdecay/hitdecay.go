// Package hitdecay implements a hit-weighted decay model for hotness scores
// over a dense integer keyspace.
//
// Scores decay only when the key is hit again, never with the passage of
// time: each hit applies score = alpha*score + 1, so under repeated hits a
// key's score climbs toward 1/(1-alpha) for alpha in [0,1). The table is a
// flat array sized to the keyspace, which keeps score access O(1) at an
// O(maxKey) memory cost.
package hitdecay

import "github.com/mohammed-shakir/hotcold/internal/hotness"

type Table struct {
	alpha  float64
	scores []float64
}

var _ hotness.Interface = (*Table)(nil)

// New allocates a score table for keys in [0, maxKey]. Alpha outside [0,1)
// is clamped into it.
func New(maxKey int64, alpha float64) *Table {
	if alpha < 0 {
		alpha = 0
	}
	if alpha >= 1 {
		alpha = 0.999
	}
	return &Table{
		alpha:  alpha,
		scores: make([]float64, maxKey+1),
	}
}

func (t *Table) Touch(k int64) float64 {
	if k < 0 || k >= int64(len(t.scores)) {
		return 0
	}
	s := t.alpha*t.scores[k] + 1.0
	t.scores[k] = s
	return s
}

func (t *Table) Score(k int64) float64 {
	if k < 0 || k >= int64(len(t.scores)) {
		return 0
	}
	return t.scores[k]
}
