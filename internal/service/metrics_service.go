package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the generation engine. All methods tolerate a nil receiver so
// metrics stay optional in tests and minimal deployments.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationDuration prometheus.Observer
	generationTotal    *prometheus.CounterVec
	searchNodes        prometheus.Observer
	searchResults      prometheus.Observer

	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Wall-clock duration of schedule generation calls",
		Buckets: prometheus.DefBuckets,
	})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Total schedule generation calls, by outcome",
	}, []string{"outcome"})

	searchNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_search_nodes",
		Help:    "Candidate nodes visited per backtracking search",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})

	searchResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_search_results",
		Help:    "Raw conflict-free combinations found per search",
		Buckets: []float64{0, 1, 5, 15, 50, 100},
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, generationTotal,
		searchNodes, searchResults, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		dbQueryDuration, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		generationTotal:    generationTotal,
		searchNodes:        searchNodes,
		searchResults:      searchResults,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records one engine run.
func (m *MetricsService) ObserveGeneration(nodes, rawCount int, truncated bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "complete"
	if truncated {
		outcome = "budget_exhausted"
	}
	m.generationTotal.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.searchNodes.Observe(float64(nodes))
	m.searchResults.Observe(float64(rawCount))
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}
