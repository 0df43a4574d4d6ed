// Package metrics exposes prometheus collectors for member search
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"membersearch/internal/platform/store/pg"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CountOutcomes counts paged searches by what happened to the count query
	CountOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membersearch_count_outcomes_total",
			Help: "Paged searches by count query outcome (ran, skipped, discarded)",
		},
		[]string{"outcome"},
	)
	// QueryDuration is the latency of traced SQL statements by query label
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "membersearch_query_duration_seconds",
			Help:    "SQL statement latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
	// QueryErrors counts failed SQL statements by query label
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membersearch_query_errors_total",
			Help: "Failed SQL statements",
		},
		[]string{"query"},
	)
	// RequestDuration is HTTP latency by method, route pattern and status
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "membersearch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveCount records one count outcome
func ObserveCount(outcome string) {
	CountOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// QueryTracer feeds pg query events into QueryDuration and QueryErrors
func QueryTracer() pg.QueryTracer { return queryTracer{} }

type queryTracer struct{}

func (queryTracer) OnQuery(ctx context.Context, ev pg.QueryEvent) {
	name := pg.QueryName(ctx)
	if name == "" {
		name = "unlabelled"
	}
	QueryDuration.WithLabelValues(name).Observe(float64(ev.ElapsedUS) / 1e6)
	if ev.Err != nil {
		QueryErrors.WithLabelValues(name).Inc()
	}
}
