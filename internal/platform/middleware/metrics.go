package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mochcare/mochcare/internal/platform/metrics"
)

// Metrics records request counts and latency labelled by the matched route,
// never the raw path, so ids do not explode label cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
