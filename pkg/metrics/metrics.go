// Package metrics exposes Prometheus instrumentation for the search service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service collectors. A nil *Metrics is valid and
// records nothing, so wiring stays optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	searchesTotal    *prometheus.CounterVec
	searchDuration   prometheus.Histogram
	documentsIndexed *prometheus.CounterVec
	indexRunsTotal   *prometheus.CounterVec
}

// New creates a Metrics with its own registry so tests never collide on the
// default global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kensaku_searches_total",
			Help: "Search requests served, by collection filter.",
		}, []string{"filetype"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kensaku_search_duration_seconds",
			Help:    "Search latency.",
			Buckets: prometheus.DefBuckets,
		}),
		documentsIndexed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kensaku_documents_indexed_total",
			Help: "Documents indexed, by collection.",
		}, []string{"filetype"}),
		indexRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kensaku_index_runs_total",
			Help: "Index runs, by outcome.",
		}, []string{"status"}),
	}
}

// ObserveSearch records one served search.
func (m *Metrics) ObserveSearch(filetype string, seconds float64) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(filetype).Inc()
	m.searchDuration.Observe(seconds)
}

// AddDocumentsIndexed records documents added to one collection.
func (m *Metrics) AddDocumentsIndexed(filetype string, n int) {
	if m == nil {
		return
	}
	m.documentsIndexed.WithLabelValues(filetype).Add(float64(n))
}

// ObserveIndexRun records one completed index run.
func (m *Metrics) ObserveIndexRun(status string) {
	if m == nil {
		return
	}
	m.indexRunsTotal.WithLabelValues(status).Inc()
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
