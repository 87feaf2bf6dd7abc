package tiered

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/mohammed-shakir/hotcold/internal/promote"
)

func defaultParams() Params {
	return Params{
		Inclusive:      true,
		SamplingRate:   1.0,
		DecayAlpha:     0.5,
		HotThreshold:   1.5,
		MaxHotFraction: 1.0,
	}
}

func mustNew(t *testing.T, maxKey int64, p Params) *Index {
	t.Helper()
	idx, err := New(maxKey, 4, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return idx
}

func TestNew_RejectsExclusiveMode(t *testing.T) {
	p := defaultParams()
	p.Inclusive = false
	if _, err := New(9, 4, p); !errors.Is(err, ErrExclusiveUnsupported) {
		t.Fatalf("err=%v, want ErrExclusiveUnsupported", err)
	}
}

func TestNew_RejectsBadParams(t *testing.T) {
	for name, mutate := range map[string]func(*Params){
		"sampling rate above one": func(p *Params) { p.SamplingRate = 1.5 },
		"negative sampling rate":  func(p *Params) { p.SamplingRate = -0.1 },
		"alpha at one":            func(p *Params) { p.DecayAlpha = 1.0 },
		"negative alpha":          func(p *Params) { p.DecayAlpha = -0.5 },
		"hot fraction above one":  func(p *Params) { p.MaxHotFraction = 2.0 },
	} {
		p := defaultParams()
		mutate(&p)
		if _, err := New(9, 4, p); !errors.Is(err, ErrBadParams) {
			t.Fatalf("%s: err=%v, want ErrBadParams", name, err)
		}
	}

	if _, err := New(-1, 4, defaultParams()); !errors.Is(err, ErrBadParams) {
		t.Fatalf("negative max key: err=%v, want ErrBadParams", err)
	}
}

func TestInsert_RejectsOutOfRangeKeys(t *testing.T) {
	idx := mustNew(t, 9, defaultParams())

	for _, k := range []int64{-1, 10, 1 << 40} {
		if err := idx.Insert(k, []byte("v")); !errors.Is(err, ErrKeyOutOfRange) {
			t.Fatalf("key %d: err=%v, want ErrKeyOutOfRange", k, err)
		}
	}

	s := idx.Stats()
	if s.ColdKeys != 0 || s.HotKeys != 0 {
		t.Fatalf("rejected inserts mutated tiers: %+v", s)
	}
}

func TestLookup_EmptyIndexCountsNotFound(t *testing.T) {
	idx := mustNew(t, 9, defaultParams())

	if _, found := idx.Lookup(5); found {
		t.Fatalf("lookup on empty index reported found")
	}

	s := idx.Stats()
	if s.NotFound != 1 || s.Queries != 1 {
		t.Fatalf("stats %+v, want not_found=1 queries=1", s)
	}
	if s.HotKeys != 0 || s.ColdKeys != 0 {
		t.Fatalf("empty lookup mutated tiers: %+v", s)
	}
}

func TestLookup_PromotionScenario(t *testing.T) {
	idx := mustNew(t, 9, defaultParams())
	if err := idx.Insert(3, []byte("P")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// first hit: score 1.0, below threshold 1.5
	if v, found := idx.Lookup(3); !found || !bytes.Equal(v, []byte("P")) {
		t.Fatalf("first lookup: %q found=%v", v, found)
	}
	if s := idx.Stats(); s.HotKeys != 0 {
		t.Fatalf("promoted below threshold: %+v", s)
	}

	// second hit: score 0.5*1.0+1.0 = 1.5, rate 1.0 admits, capacity open
	if _, found := idx.Lookup(3); !found {
		t.Fatalf("second lookup missed")
	}
	if s := idx.Stats(); s.HotKeys != 1 {
		t.Fatalf("not promoted at threshold: %+v", s)
	}

	// third hit lands in the hot tier
	if _, found := idx.Lookup(3); !found {
		t.Fatalf("third lookup missed")
	}
	s := idx.Stats()
	if s.HotHits != 1 || s.ColdHits != 2 {
		t.Fatalf("hot_hits=%d cold_hits=%d, want 1 and 2", s.HotHits, s.ColdHits)
	}
}

func TestLookup_HotHitNeverChangesMembership(t *testing.T) {
	idx := mustNew(t, 9, defaultParams())
	_ = idx.Insert(3, []byte("P"))
	idx.Lookup(3)
	idx.Lookup(3) // promoted here

	before := idx.Stats().HotKeys
	for range 10 {
		idx.Lookup(3)
	}
	if after := idx.Stats().HotKeys; after != before {
		t.Fatalf("hot keys %d -> %d across hot hits", before, after)
	}
}

func TestInclusionInvariant(t *testing.T) {
	idx := mustNew(t, 99, defaultParams())
	for k := int64(0); k < 100; k++ {
		_ = idx.Insert(k, []byte(fmt.Sprintf("v%d", k)))
	}
	for range 3 {
		for k := int64(0); k < 100; k += 7 {
			idx.Lookup(k)
		}
	}

	if idx.Stats().HotKeys == 0 {
		t.Fatalf("workload promoted nothing; invariant check is vacuous")
	}
	idx.hot.RangeSearch(0, 99, func(k int64, hotPayload []byte) {
		coldPayload, found, _ := idx.cold.Search(k)
		if !found {
			t.Fatalf("hot key %d missing from cold tier", k)
		}
		if !bytes.Equal(hotPayload, coldPayload) {
			t.Fatalf("key %d: hot %q != cold %q", k, hotPayload, coldPayload)
		}
	})
}

func TestPromotion_SamplingGateSkips(t *testing.T) {
	p := defaultParams()
	p.SamplingRate = 0.0
	idx := mustNew(t, 9, p)
	// pin the draw above zero so rate 0 always rejects
	idx.policy = promote.New(9, p.MaxHotFraction, func() float64 { return 0.5 })

	_ = idx.Insert(3, []byte("P"))
	for range 10 {
		idx.Lookup(3)
	}
	if s := idx.Stats(); s.HotKeys != 0 {
		t.Fatalf("promotion happened despite rate 0: %+v", s)
	}
}

func TestPromotion_CapacityRespected(t *testing.T) {
	p := defaultParams()
	p.MaxHotFraction = 0.2 // 2 of 10 keys
	idx := mustNew(t, 9, p)
	for k := int64(0); k < 10; k++ {
		_ = idx.Insert(k, []byte("v"))
	}
	for range 5 {
		for k := int64(0); k < 10; k++ {
			idx.Lookup(k)
		}
	}
	if s := idx.Stats(); s.HotKeys > 2 {
		t.Fatalf("hot keys %d exceed capacity bound 2", s.HotKeys)
	}
}

func TestRangeScan_DeduplicatesAcrossTiers(t *testing.T) {
	idx := mustNew(t, 9, defaultParams())
	for k := int64(0); k < 10; k++ {
		_ = idx.Insert(k, []byte{byte('a' + k)})
	}
	// drive key 3 hot
	idx.Lookup(3)
	idx.Lookup(3)
	if idx.Stats().HotKeys != 1 {
		t.Fatalf("setup failed to promote key 3")
	}

	visits := map[int64]int{}
	idx.RangeScan(2, 5, func(k int64, _ []byte) {
		visits[k]++
	})

	for k := int64(2); k <= 5; k++ {
		if visits[k] != 1 {
			t.Fatalf("key %d visited %d times, want 1", k, visits[k])
		}
	}
	if len(visits) != 4 {
		t.Fatalf("visited %d keys, want 4", len(visits))
	}
}

func TestRangeScan_AccountsTraversalCost(t *testing.T) {
	idx := mustNew(t, 99, defaultParams())
	for k := int64(0); k < 100; k++ {
		_ = idx.Insert(k, []byte("v"))
	}

	before := idx.Stats().ColdNodeVisits
	idx.RangeScan(10, 60, func(int64, []byte) {})
	if after := idx.Stats().ColdNodeVisits; after <= before {
		t.Fatalf("cold node visits %d -> %d, want increase", before, after)
	}
}

func TestAdaptation_RateStaysBounded(t *testing.T) {
	p := defaultParams()
	p.AdaptSampling = true
	p.SamplingRate = 0.95
	idx := mustNew(t, 99, p)
	for k := int64(0); k < 100; k++ {
		_ = idx.Insert(k, []byte("v"))
	}

	// enough queries for several adaptation rounds
	for q := 0; q < 16000; q++ {
		idx.Lookup(int64(q % 100))
	}

	s := idx.Stats()
	if s.SamplingRate < 0 || s.SamplingRate > 1 {
		t.Fatalf("sampling rate %g escaped [0,1]", s.SamplingRate)
	}
}

func TestAdaptation_DisabledHoldsRate(t *testing.T) {
	p := defaultParams()
	p.SamplingRate = 0.3
	p.HotThreshold = 1e9 // keep promotion out of the picture
	idx := mustNew(t, 99, p)
	for k := int64(0); k < 100; k++ {
		_ = idx.Insert(k, []byte("v"))
	}
	for q := 0; q < 12000; q++ {
		idx.Lookup(int64(q % 100))
	}
	if s := idx.Stats(); s.SamplingRate != 0.3 {
		t.Fatalf("sampling rate moved to %g with adaptation disabled", s.SamplingRate)
	}
}
