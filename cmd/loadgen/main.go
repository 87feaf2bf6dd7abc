// Command loadgen drives a skewed lookup workload against an in-process
// index and reports how the tiers and the sampling controller respond.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/hotcold/internal/logger"
	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

func main() {
	var (
		maxKey       = flag.Int64("keys", 100_000, "keyspace upper bound (inclusive)")
		degree       = flag.Int("degree", 32, "B-tree degree for both tiers")
		queries      = flag.Int64("queries", 1_000_000, "number of point lookups to run")
		zipfS        = flag.Float64("zipf-s", 1.2, "Zipf skew parameter (s > 1)")
		samplingRate = flag.Float64("sampling-rate", 0.2, "initial promotion sampling rate")
		alpha        = flag.Float64("alpha", 0.5, "hit score decay factor")
		threshold    = flag.Float64("threshold", 1.5, "promotion score threshold")
		hotFraction  = flag.Float64("hot-fraction", 0.1, "hot tier capacity as a fraction of the keyspace")
		adapt        = flag.Bool("adapt", true, "enable sampling-rate adaptation")
		seed         = flag.Uint64("seed", 1, "workload and sampling seed")
		logEvery     = flag.Int64("log-every", 100_000, "queries between progress reports")
		logLevel     = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.Build(logger.Config{Level: *logLevel, Console: true, Component: "loadgen"}, os.Stdout)

	if *logEvery <= 0 {
		*logEvery = 1
	}

	idx, err := tiered.New(*maxKey, *degree, tiered.Params{
		Inclusive:      true,
		SamplingRate:   *samplingRate,
		DecayAlpha:     *alpha,
		HotThreshold:   *threshold,
		MaxHotFraction: *hotFraction,
		AdaptSampling:  *adapt,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create index")
	}

	log.Info().Int64("keys", *maxKey+1).Msg("loading cold tier")
	for k := int64(0); k <= *maxKey; k++ {
		if err := idx.Insert(k, payloadFor(k)); err != nil {
			log.Fatal().Err(err).Int64("key", k).Msg("insert")
		}
	}

	rng := rand.New(rand.NewSource(int64(*seed)))
	zipf := rand.NewZipf(rng, *zipfS, 1.0, uint64(*maxKey))
	if zipf == nil {
		log.Fatal().Float64("zipf-s", *zipfS).Msg("invalid zipf parameters")
	}

	log.Info().Int64("queries", *queries).Float64("zipf_s", *zipfS).Msg("running workload")
	for q := int64(1); q <= *queries; q++ {
		k := int64(zipf.Uint64())
		payload, found := idx.Lookup(k)
		if !found {
			log.Fatal().Int64("key", k).Msg("loaded key missing")
		}
		if string(payload) != string(payloadFor(k)) {
			log.Fatal().Int64("key", k).Msg("payload mismatch")
		}
		if q%*logEvery == 0 {
			report(log, idx, q)
		}
	}

	s := idx.Stats()
	report(log, idx, *queries)
	avg := float64(s.HotNodeVisits+s.ColdNodeVisits) / float64(s.Queries)
	log.Info().
		Float64("avg_traversal_cost", avg).
		Float64("hot_hit_share", float64(s.HotHits)/float64(s.Queries)).
		Msg("workload complete")
}

func report(log zerolog.Logger, idx *tiered.Index, q int64) {
	s := idx.Stats()
	log.Info().
		Int64("queries", q).
		Int64("hot_hits", s.HotHits).
		Int64("cold_hits", s.ColdHits).
		Int("hot_keys", s.HotKeys).
		Float64("sampling_rate", s.SamplingRate).
		Msg("progress")
}

// payloadFor derives a verifiable payload from the key alone.
func payloadFor(k int64) []byte {
	var b [8]byte
	for i := range b {
		b[i] = byte(k >> (8 * i))
	}
	return []byte(fmt.Sprintf("%016x", xxhash.Sum64(b[:])))
}
