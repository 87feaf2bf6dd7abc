// Package adapt implements the online controller that tunes the promotion
// sampling rate.
//
// The controller is a sign-based hill climber: it watches cumulative average
// traversal cost (total node visits across both tiers divided by total
// queries, since index creation) and moves the sampling rate in fixed steps,
// keeping direction while cost falls and reversing when it rises. The cost
// baseline is deliberately never reset, so sensitivity to recent behavior
// shrinks as total query volume grows.
package adapt

import "math"

const (
	// MinDeltaQ is the minimum number of queries between adaptation steps.
	MinDeltaQ = 5000

	// Step is the fixed sampling-rate adjustment per adaptation.
	Step = 0.05

	// targetHotFraction steers the bootstrap step before any cost delta
	// exists to compare against.
	targetHotFraction = 0.6

	// rate deltas below this count as "the previous step was clamped away"
	epsRate = 1e-9
)

// Observation is the cumulative counter snapshot the controller reads.
type Observation struct {
	Queries        int64
	HotHits        int64
	HotNodeVisits  int64
	ColdNodeVisits int64
}

// Controller carries the checkpoint state between adaptation steps.
type Controller struct {
	lastQueries int64
	lastCost    float64
	lastRate    float64
}

func New(initialRate float64) *Controller {
	return &Controller{lastRate: initialRate}
}

// MaybeAdapt runs one controller step if at least MinDeltaQ queries elapsed
// since the previous one. It returns the sampling rate to use from now on
// and whether a step was actually taken.
func (c *Controller) MaybeAdapt(obs Observation, rate float64) (float64, bool) {
	q := obs.Queries
	if q-c.lastQueries < MinDeltaQ {
		return rate, false
	}

	totalVisits := float64(obs.HotNodeVisits) + float64(obs.ColdNodeVisits)
	cost := 0.0
	if q > 0 {
		cost = totalVisits / float64(q)
	}

	next := rate
	if c.lastQueries == 0 {
		// first step: no cost delta to compare yet, steer by hot-hit share
		next = bootstrap(rate, obs)
	} else {
		dC := cost - c.lastCost
		dD := rate - c.lastRate

		switch {
		case math.Abs(dD) < epsRate:
			next = bootstrap(rate, obs)
		case dC*dD < 0:
			// last move lowered cost, keep going the same way
			next = rate + math.Copysign(Step, dD)
		case dC*dD > 0:
			// last move raised cost, back off
			next = rate - math.Copysign(Step, dD)
		}
		// dC exactly zero leaves the rate where it is
	}

	if next < 0 {
		next = 0
	}
	if next > 1 {
		next = 1
	}

	c.lastRate = rate
	c.lastCost = cost
	c.lastQueries = q
	return next, true
}

func bootstrap(rate float64, obs Observation) float64 {
	q := obs.Queries
	if q == 0 {
		q = 1
	}
	if float64(obs.HotHits)/float64(q) < targetHotFraction {
		return rate + Step
	}
	return rate - Step
}
