// Package tiered implements a two-tier ordered index over a dense integer
// keyspace.
//
// All keys live in a full "cold" store; frequently hit keys are additionally
// copied into a smaller "hot" store that is searched first, so skewed
// workloads pay the cold traversal cost only on their long tail. Promotion
// is driven by per-key hit scores and gated by a sampling rate that an
// online controller tunes against observed traversal cost. Caching is
// inclusive: a hot key always keeps its cold copy.
//
// The index is single-threaded by design; callers that share one across
// goroutines must serialize access themselves.
package tiered

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/hotcold/internal/adapt"
	"github.com/mohammed-shakir/hotcold/internal/hotness"
	"github.com/mohammed-shakir/hotcold/internal/hotness/hitdecay"
	"github.com/mohammed-shakir/hotcold/internal/promote"
	"github.com/mohammed-shakir/hotcold/internal/store"
	"github.com/mohammed-shakir/hotcold/internal/store/btreestore"
)

var (
	// ErrKeyOutOfRange is returned by Insert for keys outside [0, maxKey].
	ErrKeyOutOfRange = errors.New("key out of range")

	// ErrExclusiveUnsupported is returned at construction when exclusive
	// caching is requested. Only inclusive mode is implemented.
	ErrExclusiveUnsupported = errors.New("exclusive caching mode not supported")

	// ErrBadParams is returned at construction for parameter values
	// outside their legal ranges.
	ErrBadParams = errors.New("invalid index parameters")
)

// Params configures an Index. All fields are fixed after construction
// except the sampling rate, which the controller rewrites while adapting.
type Params struct {
	// Inclusive selects inclusive caching and must be true.
	Inclusive bool

	// SamplingRate is the initial probability in [0,1] that a qualifying
	// promotion attempt is carried out.
	SamplingRate float64

	// DecayAlpha weights the previous score on every hit:
	// score = DecayAlpha*score + 1.
	DecayAlpha float64

	// HotThreshold is the score at which a cold hit attempts promotion.
	HotThreshold float64

	// MaxHotFraction bounds the hot tier to this fraction of the keyspace.
	MaxHotFraction float64

	// AdaptSampling enables the online sampling-rate controller.
	AdaptSampling bool

	// Seed seeds the sampling draw; zero means 1 so runs are reproducible
	// by default.
	Seed uint64
}

// Stats is a snapshot of the index counters. Counter fields accumulate over
// the index lifetime; HotKeys, ColdKeys and SamplingRate are read fresh at
// snapshot time.
type Stats struct {
	Queries  int64 `json:"queries"`
	HotHits  int64 `json:"hot_hits"`
	ColdHits int64 `json:"cold_hits"`
	NotFound int64 `json:"not_found"`

	HotNodeVisits  int64 `json:"hot_node_visits"`
	ColdNodeVisits int64 `json:"cold_node_visits"`

	HotKeys      int     `json:"hot_keys"`
	ColdKeys     int     `json:"cold_keys"`
	SamplingRate float64 `json:"sampling_rate"`
}

// Index is the two-tier ordered index.
type Index struct {
	maxKey int64
	params Params
	rate   float64

	hot    store.Interface
	cold   store.Interface
	scores hotness.Interface

	policy *promote.Policy
	ctrl   *adapt.Controller

	queries  int64
	hotHits  int64
	coldHits int64
	notFound int64

	hotNodeVisits  int64
	coldNodeVisits int64

	log zerolog.Logger
}

// New creates an index over the keyspace [0, maxKey] with both tiers backed
// by B-trees of the given degree.
func New(maxKey int64, degree int, p Params) (*Index, error) {
	if !p.Inclusive {
		return nil, ErrExclusiveUnsupported
	}
	if maxKey < 0 {
		return nil, fmt.Errorf("%w: max key %d is negative", ErrBadParams, maxKey)
	}
	if p.SamplingRate < 0 || p.SamplingRate > 1 {
		return nil, fmt.Errorf("%w: sampling rate %g outside [0,1]", ErrBadParams, p.SamplingRate)
	}
	if p.DecayAlpha < 0 || p.DecayAlpha >= 1 {
		return nil, fmt.Errorf("%w: decay alpha %g outside [0,1)", ErrBadParams, p.DecayAlpha)
	}
	if p.MaxHotFraction < 0 || p.MaxHotFraction > 1 {
		return nil, fmt.Errorf("%w: max hot fraction %g outside [0,1]", ErrBadParams, p.MaxHotFraction)
	}
	if p.Seed == 0 {
		p.Seed = 1
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed))
	idx := &Index{
		maxKey: maxKey,
		params: p,
		rate:   p.SamplingRate,
		hot:    btreestore.New(degree),
		cold:   btreestore.New(degree),
		scores: hitdecay.New(maxKey, p.DecayAlpha),
		policy: promote.New(maxKey, p.MaxHotFraction, rng.Float64),
		ctrl:   adapt.New(p.SamplingRate),
		log:    zerolog.Nop(),
	}
	return idx, nil
}

// SetLogger attaches a logger for range violations and adaptation steps.
func (i *Index) SetLogger(l zerolog.Logger) {
	i.log = l
}

// MaxKey returns the inclusive upper bound of the keyspace.
func (i *Index) MaxKey() int64 {
	return i.maxKey
}

// Insert upserts the payload for k into the cold tier. Keys outside
// [0, maxKey] are rejected without mutating any state; scores and promotion
// are untouched either way.
func (i *Index) Insert(k int64, payload []byte) error {
	if k < 0 || k > i.maxKey {
		i.log.Warn().Int64("key", k).Int64("max_key", i.maxKey).Msg("insert key out of range")
		return fmt.Errorf("%w: key %d outside [0, %d]", ErrKeyOutOfRange, k, i.maxKey)
	}
	i.cold.Insert(k, payload)
	return nil
}

// Lookup searches hot then cold, updating hit scores and counters, and may
// promote the key or adapt the sampling rate as side effects. A miss is an
// ordinary (nil, false) outcome, not an error.
func (i *Index) Lookup(k int64) ([]byte, bool) {
	i.queries++
	i.maybeAdapt()

	payload, found, cost := i.hot.Search(k)
	i.hotNodeVisits += cost
	if found {
		i.hotHits++
		if k >= 0 && k <= i.maxKey {
			// already hot, no promotion to attempt
			i.scores.Touch(k)
		}
		return payload, true
	}

	payload, found, cost = i.cold.Search(k)
	i.coldNodeVisits += cost
	if found {
		i.coldHits++
		if k >= 0 && k <= i.maxKey {
			if score := i.scores.Touch(k); score >= i.params.HotThreshold {
				out := i.policy.MaybePromote(i.hot, i.cold, k, i.rate)
				i.log.Debug().Int64("key", k).Float64("score", score).
					Str("outcome", string(out)).Msg("promotion attempt")
			}
		}
		return payload, true
	}

	i.notFound++
	return nil, false
}

// RangeScan invokes visit exactly once per distinct key in [lo, hi] present
// in either tier. The hot tier is scanned first, so for keys present in
// both the hot copy is the one visited. Ordering is ascending within each
// tier but not across tiers.
func (i *Index) RangeScan(lo, hi int64, visit func(k int64, payload []byte)) {
	seen := roaring64.New()
	emit := func(k int64, payload []byte) {
		if k < 0 || k > i.maxKey {
			return
		}
		if seen.Contains(uint64(k)) {
			return
		}
		seen.Add(uint64(k))
		visit(k, payload)
	}

	i.hotNodeVisits += i.hot.RangeSearch(lo, hi, emit)
	i.coldNodeVisits += i.cold.RangeSearch(lo, hi, emit)
}

// Stats returns a snapshot of the counters plus the current tier sizes and
// sampling rate. It has no side effects.
func (i *Index) Stats() Stats {
	return Stats{
		Queries:        i.queries,
		HotHits:        i.hotHits,
		ColdHits:       i.coldHits,
		NotFound:       i.notFound,
		HotNodeVisits:  i.hotNodeVisits,
		ColdNodeVisits: i.coldNodeVisits,
		HotKeys:        i.hot.Count(),
		ColdKeys:       i.cold.Count(),
		SamplingRate:   i.rate,
	}
}

func (i *Index) maybeAdapt() {
	if !i.params.AdaptSampling {
		return
	}
	obs := adapt.Observation{
		Queries:        i.queries,
		HotHits:        i.hotHits,
		HotNodeVisits:  i.hotNodeVisits,
		ColdNodeVisits: i.coldNodeVisits,
	}
	next, stepped := i.ctrl.MaybeAdapt(obs, i.rate)
	if !stepped {
		return
	}
	if next != i.rate {
		i.log.Debug().Float64("from", i.rate).Float64("to", next).
			Int64("queries", i.queries).Msg("sampling rate adapted")
	}
	i.rate = next
}
