package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tickethub/server/internal/metrics"
)

// Metrics records request counts and latencies for Prometheus.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			if rw.status == 0 {
				rw.status = http.StatusOK
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
