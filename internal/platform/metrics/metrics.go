package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mochcare_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mochcare_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FormEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mochcare_form_entries_total",
			Help: "Total number of form entries saved, by form slug",
		},
		[]string{"form_slug"},
	)

	FormSubmitFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mochcare_form_submit_failures_total",
			Help: "Total number of rejected or failed form entry submissions",
		},
		[]string{"reason"},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mochcare_http_panics_total",
			Help: "Handler panics recovered by route",
		},
		[]string{"route"},
	)

	FormCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mochcare_form_cache_lookups_total",
			Help: "Form schema cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// Handler exposes the default registry for scraping.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
