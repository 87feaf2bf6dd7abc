// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

type Config struct {
	Addr       string
	LogLevel   string
	LogConsole bool

	MaxKey      int64
	TreeDegree  int
	IndexParams tiered.Params
}

func FromEnv() Config {
	maxKey := getint64("INDEX_MAX_KEY", 1_000_000)
	if maxKey < 0 {
		maxKey = 0
	}

	degree := getint("INDEX_TREE_DEGREE", 32)
	if degree < 2 {
		degree = 2
	}

	return Config{
		Addr:       getenv("ADDR", ":8090"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogConsole: getbool("LOG_CONSOLE", false),
		MaxKey:     maxKey,
		TreeDegree: degree,
		IndexParams: tiered.Params{
			Inclusive:      true,
			SamplingRate:   getfloat("INDEX_SAMPLING_RATE", 0.2),
			DecayAlpha:     getfloat("INDEX_DECAY_ALPHA", 0.5),
			HotThreshold:   getfloat("INDEX_HOT_THRESHOLD", 1.5),
			MaxHotFraction: getfloat("INDEX_MAX_HOT_FRACTION", 0.1),
			AdaptSampling:  getbool("INDEX_ADAPT_SAMPLING", true),
			Seed:           getuint64("INDEX_SEED", 1),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getuint64(k string, def uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
