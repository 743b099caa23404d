package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Middleware records request counts and latencies into the collector. It
// labels by chi route pattern rather than raw path to keep cardinality
// bounded.
func Middleware(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			if routePattern == "" {
				routePattern = "unknown"
			}

			collector.HTTPRequests.WithLabelValues(
				r.Method,
				routePattern,
				strconv.Itoa(ww.status),
			).Inc()
			collector.HTTPDuration.WithLabelValues(
				r.Method,
				routePattern,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// responseWriter captures the response status for labelling.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
