// Package server exposes the tiered index over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/hotcold/internal/metrics"
	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

// Server serializes all index access behind one mutex; the index core is
// single-threaded and the HTTP layer supplies the locking discipline.
type Server struct {
	mu  sync.Mutex
	idx *tiered.Index

	log  zerolog.Logger
	prov *metrics.Provider
}

func New(idx *tiered.Index, log zerolog.Logger, prov *metrics.Provider) *Server {
	s := &Server{idx: idx, log: log, prov: prov}
	prov.Register(metrics.NewIndexCollector(s.snapshot))
	return s
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(RequestLogging(s.log, s.prov))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", s.prov.Handler().ServeHTTP)

	r.Put("/keys/{key}", s.handlePut)
	r.Get("/keys/{key}", s.handleGet)
	r.Get("/range", s.handleRange)
	r.Get("/stats", s.handleStats)
	return r
}

func (s *Server) snapshot() tiered.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Stats()
}

// sets up http and starts serving until ctx is cancelled
func Run(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http listen")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
