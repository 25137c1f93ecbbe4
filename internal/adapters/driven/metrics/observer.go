// Package metrics exports ingestion and search measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Observer implements the interface.
var _ driven.IngestionObserver = (*Observer)(nil)

const namespace = "pdfrag"

var states = []domain.IngestionState{
	domain.StateEmpty,
	domain.StateIngesting,
	domain.StateReady,
	domain.StateFailed,
}

// Observer records measurements on its own registry.
type Observer struct {
	registry *prometheus.Registry

	ingestions        *prometheus.CounterVec
	ingestionDuration prometheus.Histogram
	chunks            prometheus.Gauge
	pages             *prometheus.CounterVec
	searches          *prometheus.CounterVec
	searchDuration    *prometheus.HistogramVec
	searchResults     prometheus.Histogram
	state             *prometheus.GaugeVec
}

// NewObserver creates an observer with a fresh registry.
func NewObserver() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Ingestion attempts by outcome.",
		}, []string{"status"}),
		ingestionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Wall time of ingestion attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		chunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks",
			Help:      "Chunks in the published snapshot.",
		}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_extracted_total",
			Help:      "Pages extracted by method.",
		}, []string{"method"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search queries by mode.",
		}, []string{"mode"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"mode"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Results returned per query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingestion_state",
			Help:      "1 for the current ingestion state, 0 otherwise.",
		}, []string{"state"}),
	}

	o.registry.MustRegister(
		o.ingestions,
		o.ingestionDuration,
		o.chunks,
		o.pages,
		o.searches,
		o.searchDuration,
		o.searchResults,
		o.state,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	o.ObserveState(domain.StateEmpty, domain.StateEmpty)
	return o
}

// ObserveIngestion records one ingestion outcome.
func (o *Observer) ObserveIngestion(rec domain.IngestionRecord) {
	o.ingestions.WithLabelValues(string(rec.Status)).Inc()
	if !rec.FinishedAt.IsZero() {
		o.ingestionDuration.Observe(rec.FinishedAt.Sub(rec.StartedAt).Seconds())
	}
	if rec.Status == domain.IngestionSucceeded {
		o.chunks.Set(float64(rec.ChunksCreated))
	}
}

// ObservePages counts extracted pages.
func (o *Observer) ObservePages(method domain.ExtractionMethod, pages int) {
	if pages <= 0 {
		return
	}
	o.pages.WithLabelValues(string(method)).Add(float64(pages))
}

// ObserveSearch records one query.
func (o *Observer) ObserveSearch(mode domain.SearchMode, results int, elapsed time.Duration) {
	o.searches.WithLabelValues(string(mode)).Inc()
	o.searchDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	o.searchResults.Observe(float64(results))
}

// ObserveState tracks lifecycle transitions. It has the shape of
// services.StateListener.
func (o *Observer) ObserveState(_, to domain.IngestionState) {
	for _, s := range states {
		v := 0.0
		if s == to {
			v = 1
		}
		o.state.WithLabelValues(string(s)).Set(v)
	}
}

// Registry returns the underlying registry.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus text format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
