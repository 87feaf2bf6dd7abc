package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

// IndexCollector samples an index stats snapshot on every scrape. The
// source func must be safe to call from the scrape goroutine; the server
// passes a getter that takes its index lock.
type IndexCollector struct {
	source func() tiered.Stats

	queries      *prometheus.Desc
	hits         *prometheus.Desc
	notFound     *prometheus.Desc
	nodeVisits   *prometheus.Desc
	keys         *prometheus.Desc
	samplingRate *prometheus.Desc
}

var _ prometheus.Collector = (*IndexCollector)(nil)

func NewIndexCollector(source func() tiered.Stats) *IndexCollector {
	return &IndexCollector{
		source: source,
		queries: prometheus.NewDesc(
			"hotcold_index_queries_total",
			"Total point lookups against the index.",
			nil, nil,
		),
		hits: prometheus.NewDesc(
			"hotcold_index_hits_total",
			"Lookup hits by tier.",
			[]string{"tier"}, nil,
		),
		notFound: prometheus.NewDesc(
			"hotcold_index_not_found_total",
			"Lookups that missed both tiers.",
			nil, nil,
		),
		nodeVisits: prometheus.NewDesc(
			"hotcold_index_node_visits_total",
			"Cumulative tree traversal cost by tier.",
			[]string{"tier"}, nil,
		),
		keys: prometheus.NewDesc(
			"hotcold_index_keys",
			"Current key count by tier.",
			[]string{"tier"}, nil,
		),
		samplingRate: prometheus.NewDesc(
			"hotcold_index_sampling_rate",
			"Current promotion sampling rate.",
			nil, nil,
		),
	}
}

func (c *IndexCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queries
	ch <- c.hits
	ch <- c.notFound
	ch <- c.nodeVisits
	ch <- c.keys
	ch <- c.samplingRate
}

func (c *IndexCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()

	ch <- prometheus.MustNewConstMetric(c.queries, prometheus.CounterValue, float64(s.Queries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.HotHits), "hot")
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.ColdHits), "cold")
	ch <- prometheus.MustNewConstMetric(c.notFound, prometheus.CounterValue, float64(s.NotFound))
	ch <- prometheus.MustNewConstMetric(c.nodeVisits, prometheus.CounterValue, float64(s.HotNodeVisits), "hot")
	ch <- prometheus.MustNewConstMetric(c.nodeVisits, prometheus.CounterValue, float64(s.ColdNodeVisits), "cold")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.HotKeys), "hot")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.ColdKeys), "cold")
	ch <- prometheus.MustNewConstMetric(c.samplingRate, prometheus.GaugeValue, s.SamplingRate)
}
