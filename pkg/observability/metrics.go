package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the service
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph pipeline metrics
	GraphBuilds     prometheus.Counter
	EdgesDerived    prometheus.Counter
	EdgesDropped    prometheus.Counter
	SimulationTicks prometheus.Counter

	// Recommendation quality, refreshed on every /products evaluation
	RecommendPrecision prometheus.Gauge
	RecommendRecall    prometheus.Gauge
	RecommendF1        prometheus.Gauge

	// Chat collaborator metrics
	ChatRequests *prometheus.CounterVec

	// Query bus metrics
	QueryDuration *prometheus.HistogramVec
	QueryResults  *prometheus.CounterVec
}

// NewCollector creates a metrics collector with the given namespace.
// A singleton is used so repeated construction in tests does not trip
// duplicate registration.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	graphBuilds := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Total number of similarity graph rebuilds",
		},
	)

	edgesDerived := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_derived_total",
			Help:      "Total number of similarity edges derived",
		},
	)

	edgesDropped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_dropped_total",
			Help:      "Edges dropped because an endpoint id was unknown",
		},
	)

	simulationTicks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_simulation_ticks_total",
			Help:      "Total number of layout simulation steps executed",
		},
	)

	recommendPrecision := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommend_precision",
			Help:      "Precision of the last centrality recommendation set",
		},
	)

	recommendRecall := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommend_recall",
			Help:      "Recall of the last centrality recommendation set",
		},
	)

	recommendF1 := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommend_f1",
			Help:      "F1 score of the last centrality recommendation set",
		},
	)

	chatRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat collaborator requests by outcome",
		},
		[]string{"outcome"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query bus handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	queryResults := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_results_total",
			Help:      "Query bus results by query type and outcome",
		},
		[]string{"query", "outcome"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		graphBuilds,
		edgesDerived,
		edgesDropped,
		simulationTicks,
		recommendPrecision,
		recommendRecall,
		recommendF1,
		chatRequests,
		queryDuration,
		queryResults,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		GraphBuilds:        graphBuilds,
		EdgesDerived:       edgesDerived,
		EdgesDropped:       edgesDropped,
		SimulationTicks:    simulationTicks,
		RecommendPrecision: recommendPrecision,
		RecommendRecall:    recommendRecall,
		RecommendF1:        recommendF1,
		ChatRequests:       chatRequests,
		QueryDuration:      queryDuration,
		QueryResults:       queryResults,
	}

	return globalCollector
}

// ObserveQuery records one query bus dispatch
func (c *Collector) ObserveQuery(query string, elapsed time.Duration, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.QueryDuration.WithLabelValues(query).Observe(elapsed.Seconds())
	c.QueryResults.WithLabelValues(query, outcome).Inc()
}

// Registry exposes the underlying registry for the /metrics handler
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
