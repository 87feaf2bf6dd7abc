// Package promote decides whether a qualifying cold hit is copied into the
// hot tier.
package promote

import "github.com/mohammed-shakir/hotcold/internal/store"

// Outcome reports why a promotion attempt did or did not happen. Every
// skip is an expected steady-state event, not a failure.
type Outcome string

const (
	OutcomePromoted   Outcome = "promoted"
	OutcomeSampledOut Outcome = "sampled_out"
	OutcomeAtCapacity Outcome = "at_capacity"
	OutcomeAlreadyHot Outcome = "already_hot"
	OutcomeColdMiss   Outcome = "cold_miss"
)

// Policy gates promotion with a probabilistic admission draw and a hot-tier
// capacity bound. Promotion copies the payload; the cold tier always keeps
// its own copy (inclusive caching).
type Policy struct {
	totalKeys      float64
	maxHotFraction float64
	randFloat      func() float64
}

// New builds a policy for keys in [0, maxKey]. randFloat must be a uniform
// source over [0,1); it is injected so tests can pin the draw.
func New(maxKey int64, maxHotFraction float64, randFloat func() float64) *Policy {
	return &Policy{
		totalKeys:      float64(maxKey + 1),
		maxHotFraction: maxHotFraction,
		randFloat:      randFloat,
	}
}

// MaybePromote copies k from cold into hot when the sampling draw admits it,
// the hot tier has capacity, and k is not already hot. Traversal costs of
// its own probe searches are deliberately not accounted anywhere.
func (p *Policy) MaybePromote(hot, cold store.Interface, k store.Key, samplingRate float64) Outcome {
	if samplingRate < 0 {
		samplingRate = 0
	}
	if samplingRate > 1 {
		samplingRate = 1
	}
	if p.randFloat() > samplingRate {
		return OutcomeSampledOut
	}

	// no eviction exists, so a full hot tier simply stops admitting
	if float64(hot.Count()) >= p.maxHotFraction*p.totalKeys {
		return OutcomeAtCapacity
	}

	if _, found, _ := hot.Search(k); found {
		return OutcomeAlreadyHot
	}

	payload, found, _ := cold.Search(k)
	if !found {
		// caller saw a cold hit just before; vanishing here means the
		// store changed under us and the attempt is quietly dropped
		return OutcomeColdMiss
	}

	hot.Insert(k, payload)
	return OutcomePromoted
}
