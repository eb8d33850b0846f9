// Package metrics exposes the resolver's Prometheus counters and gauges.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dns_queries_total",
		Help: "How many DNS queries the resolver core has processed",
	}, []string{"qtype", "rcode"})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dns_cache_hits_total",
		Help: "Total number of cache hits",
	})

	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dns_cache_misses_total",
		Help: "Total number of cache misses",
	})

	blocklistHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dns_blocklist_hits_total",
		Help: "Total number of queries answered by the blocklist stage",
	})

	upstreamQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dns_upstream_queries_total",
		Help: "Total number of queries sent to upstream servers",
	}, []string{"upstream", "outcome"})

	upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dns_upstream_latency_ms",
		Help:    "Upstream exchange latency in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"upstream"})

	breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dns_upstream_breaker_state",
		Help: "Circuit breaker state per upstream: 0=closed, 1=open, 2=half_open",
	}, []string{"upstream"})
)

func init() {
	prometheus.MustRegister(queriesTotal, cacheHits, cacheMisses, blocklistHits,
		upstreamQueries, upstreamLatency, breakerState)
}

// ObserveQuery records a fully resolved query by its question type and the
// response code written back to the client.
func ObserveQuery(qtype uint16, rcode byte) {
	queriesTotal.With(prometheus.Labels{
		"qtype": strconv.Itoa(int(qtype)),
		"rcode": strconv.Itoa(int(rcode)),
	}).Inc()
}

// ObserveCacheHit records a cache hit.
func ObserveCacheHit() {
	cacheHits.Inc()
}

// ObserveCacheMiss records a cache miss.
func ObserveCacheMiss() {
	cacheMisses.Inc()
}

// ObserveBlocklistHit records a query short-circuited by the blocklist stage.
func ObserveBlocklistHit() {
	blocklistHits.Inc()
}

// ObserveUpstreamAttempt records the outcome ("success" or "failure") of one
// upstream exchange and its latency.
func ObserveUpstreamAttempt(upstreamID, outcome string, latencyMs int64) {
	upstreamQueries.With(prometheus.Labels{"upstream": upstreamID, "outcome": outcome}).Inc()
	upstreamLatency.With(prometheus.Labels{"upstream": upstreamID}).Observe(float64(latencyMs))
}

// SetBreakerState publishes a circuit breaker's current state as a gauge.
func SetBreakerState(upstreamID string, state int) {
	breakerState.With(prometheus.Labels{"upstream": upstreamID}).Set(float64(state))
}
