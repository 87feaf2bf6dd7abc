// Package metrics exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version   string
	Revision  string
	BuildDate string
}

type Provider struct {
	reg       *prometheus.Registry
	buildInfo *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func Init(build BuildInfo) *Provider {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bi := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "revision", "build_date"},
	)
	reg.MustRegister(bi)
	if build.Version == "" {
		build.Version = "dev"
	}
	bi.WithLabelValues(build.Version, build.Revision, build.BuildDate).Set(1)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"method", "route", "status"},
	)
	reg.MustRegister(httpRequests, httpDuration)

	return &Provider{
		reg:          reg,
		buildInfo:    bi,
		httpRequests: httpRequests,
		httpDuration: httpDuration,
	}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }

func (p *Provider) ObserveHTTP(method, route, status string, durationSeconds float64) {
	p.httpRequests.WithLabelValues(method, route, status).Inc()
	p.httpDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}
