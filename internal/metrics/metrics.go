package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liquidity_router_pool_count",
		Help: "Total number of pools in the current snapshot",
	})

	ReadyPoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liquidity_router_ready_pool_count",
		Help: "Number of pools in the snapshot that can be routed through",
	})

	PoolUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liquidity_router_pool_updates_total",
		Help: "Total number of pool upserts applied to the snapshot",
	})

	SnapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liquidity_router_snapshot_version",
		Help: "Version of the current pool snapshot",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidity_router_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"strategy", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liquidity_router_quote_duration_seconds",
			Help:    "Quote duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"strategy"},
	)

	StrategyWins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidity_router_strategy_wins_total",
			Help: "Number of times a strategy produced the best quote when comparing all strategies",
		},
		[]string{"strategy"},
	)

	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liquidity_router_quote_cache_hits_total",
		Help: "Total number of quote cache hits",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liquidity_router_quote_cache_misses_total",
		Help: "Total number of quote cache misses",
	})

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liquidity_router_quote_cache_size",
		Help: "Current number of entries in quote cache",
	})

	GraphRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liquidity_router_graph_rebuilds_total",
		Help: "Total number of token graph rebuilds after a snapshot change",
	})

	PoolsEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "liquidity_router_pools_evaluated",
		Help:    "Number of pools in the snapshot per quote request",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
	})

	RouteHops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "liquidity_router_route_hops",
		Help:    "Hop count of returned routes",
		Buckets: []float64{1, 2, 3},
	})

	PriceImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liquidity_router_price_impact_bps",
			Help:    "Price impact in basis points",
			Buckets: []float64{0, 10, 50, 100, 300, 500, 1000, 5000, 10000},
		},
		[]string{"severity"},
	)

	// Execution metrics
	Executions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidity_router_executions_total",
			Help: "Total number of route executions",
		},
		[]string{"mode", "status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidity_router_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liquidity_router_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
