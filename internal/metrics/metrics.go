//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package metrics provides Prometheus instrumentation for the
// retrieval cascade: per-stage execution time and document/query
// throughput counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage identifies which cascade stage a metric observation belongs
// to.
type Stage string

const (
	StageLexical     Stage = "lexical"
	StageRelevance   Stage = "relevance"
	StageSemantic    Stage = "semantic"
	StagePersonalize Stage = "personalize"
	StageAggregate   Stage = "aggregate"
)

// Manager owns the process's Prometheus registry and the cascade's
// metric instruments.
type Manager struct {
	registry *prometheus.Registry
	enabled  bool

	stageDuration    *prometheus.HistogramVec
	searchesTotal    *prometheus.CounterVec
	documentsIndexed prometheus.Counter
	documentsRemoved prometheus.Counter
	corpusSize       prometheus.Gauge
}

// Config controls whether metrics are collected.
type Config struct {
	Enabled bool
}

// DefaultConfig enables metrics collection.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

var stageDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// NewManager creates a metrics manager. A disabled manager is a
// functioning no-op: every recording method is safe to call.
func NewManager(cfg Config) *Manager {
	if !cfg.Enabled {
		return &Manager{enabled: false}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Manager{registry: registry, enabled: true}

	m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cascade",
		Name:      "stage_duration_seconds",
		Help:      "Execution time of a single cascade stage invocation.",
		Buckets:   stageDurationBuckets,
	}, []string{"stage"})

	m.searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cascade",
		Name:      "searches_total",
		Help:      "Number of search requests handled, by operation kind.",
	}, []string{"operation"})

	m.documentsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cascade",
		Name:      "documents_indexed_total",
		Help:      "Number of documents successfully added to the corpus.",
	})

	m.documentsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cascade",
		Name:      "documents_removed_total",
		Help:      "Number of documents successfully removed from the corpus.",
	})

	m.corpusSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cascade",
		Name:      "corpus_size",
		Help:      "Current number of documents in the corpus.",
	})

	registry.MustRegister(m.stageDuration, m.searchesTotal, m.documentsIndexed, m.documentsRemoved, m.corpusSize)

	return m
}

// NoOpManager returns a disabled metrics manager.
func NoOpManager() *Manager {
	return &Manager{enabled: false}
}

// Enabled reports whether metrics collection is active.
func (m *Manager) Enabled() bool { return m.enabled }

// Handler returns the HTTP handler serving the Prometheus exposition
// format.
func (m *Manager) Handler() http.Handler {
	if !m.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStageDuration records how long a single stage invocation
// took.
func (m *Manager) ObserveStageDuration(stage Stage, seconds float64) {
	if !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(seconds)
}

// IncSearches increments the counter for the given top-level operation
// (search, quickSearch, booleanSearch, semanticSearch, findSimilar).
func (m *Manager) IncSearches(operation string) {
	if !m.enabled {
		return
	}
	m.searchesTotal.WithLabelValues(operation).Inc()
}

// IncDocumentsIndexed increments the documents-added counter.
func (m *Manager) IncDocumentsIndexed() {
	if !m.enabled {
		return
	}
	m.documentsIndexed.Inc()
}

// IncDocumentsRemoved increments the documents-removed counter.
func (m *Manager) IncDocumentsRemoved() {
	if !m.enabled {
		return
	}
	m.documentsRemoved.Inc()
}

// SetCorpusSize sets the current corpus size gauge.
func (m *Manager) SetCorpusSize(n int) {
	if !m.enabled {
		return
	}
	m.corpusSize.Set(float64(n))
}
