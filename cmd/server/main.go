package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammed-shakir/hotcold/internal/config"
	"github.com/mohammed-shakir/hotcold/internal/logger"
	"github.com/mohammed-shakir/hotcold/internal/metrics"
	"github.com/mohammed-shakir/hotcold/internal/server"
	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

var Version = "dev"

func main() {
	cfg := config.FromEnv()
	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "server",
	}, os.Stdout)
	log.Info().Str("addr", cfg.Addr).Str("version", Version).
		Int64("max_key", cfg.MaxKey).Msg("starting hotcold server")

	idx, err := tiered.New(cfg.MaxKey, cfg.TreeDegree, cfg.IndexParams)
	if err != nil {
		log.Fatal().Err(err).Msg("create index")
	}
	idx.SetLogger(log.With().Str("component", "index").Logger())

	prov := metrics.Init(metrics.BuildInfo{Version: Version})
	srv := server.New(idx, log, prov)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}
