package middleware

import (
	"net/http"
	"strconv"

	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

// Metrics counts requests by chi route pattern and status code.
// Labelling by pattern keeps slugs and user ids out of the label set.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(wrapped.status)).Inc()
	})
}
