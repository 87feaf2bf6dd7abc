package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/hotcold/internal/logger"
	"github.com/mohammed-shakir/hotcold/internal/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogging tags each request with an id, logs it at debug and feeds
// the HTTP metrics.
func RequestLogging(l zerolog.Logger, prov *metrics.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = logger.NewID()
				w.Header().Set("X-Request-ID", reqID)
			}
			ctx := logger.WithRequestID(r.Context(), reqID)

			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			elapsed := time.Since(start)
			if prov != nil {
				prov.ObserveHTTP(r.Method, routePattern(r), strconv.Itoa(sw.code), elapsed.Seconds())
			}
			logger.FromContext(ctx, &l).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.code).
				Dur("elapsed", elapsed).
				Msg("http request")
		}
		return http.HandlerFunc(fn)
	}
}

// Recover basic panic recovery middleware
func Recover(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error().Interface("err", rec).Msg("panic recovered")
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func routePattern(r *http.Request) string {
	// fall back to the raw path for requests that missed the router
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
