package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gonadarena_cache_lookups_total",
		Help: "Polling cache lookups by outcome (hit, miss, stale, error).",
	}, []string{"cache", "result"})

	TxTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gonadarena_tx_transitions_total",
		Help: "Transaction lifecycle transitions.",
	}, []string{"action", "state"})

	CorrelatorEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gonadarena_correlator_events_total",
		Help: "Contract events seen by the correlator by outcome.",
	}, []string{"event", "outcome"})

	SocialEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gonadarena_social_events_total",
		Help: "Social feed entries appended.",
	}, []string{"type"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gonadarena_websocket_connections",
		Help: "Open websocket connections.",
	})
)

func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unknown"
			}
			status := strconv.Itoa(c.Response().Status)

			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
