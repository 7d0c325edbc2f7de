// Package metrics defines Prometheus metrics for the Ozon Seller API client
// and pushes them to a Pushgateway, since ozonctl exits before it could be
// scraped.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "ozon"

// API call metrics. The endpoint label is "{version}/{path}".
var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of Seller API responses received, by HTTP status.",
	}, []string{"endpoint", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of Seller API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	APITransportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_transport_errors_total",
		Help:      "Total number of Seller API calls that failed before a response was received.",
	}, []string{"endpoint"})
)

// Pagination metrics.
var (
	PaginationPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pagination_pages_total",
		Help:      "Total number of attribute value pages fetched.",
	})

	PaginationExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pagination_exhausted_total",
		Help:      "Total number of value fetches abandoned because pagination stopped making progress.",
	})

	CategoryFieldFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_field_failures_total",
		Help:      "Total number of category fields emitted with incomplete values.",
	})
)

// Rate limiter metrics.
var (
	RateLimitDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_daily_usage",
		Help:      "Current Seller API call count within the rolling 24-hour window.",
	})

	RateLimitDailyHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_daily_hits_total",
		Help:      "Total number of calls rejected because the daily budget was spent.",
	})
)

// Push sends every metric in the default registry to the Prometheus
// Pushgateway at url, replacing the metrics previously pushed for job.
func Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
