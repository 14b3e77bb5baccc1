package http

import (
	"net/http"
	"strings"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func WithMetrics(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		metrics.RecordRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rw.statusCode, duration)
	})
}

// routeLabel collapses order ids out of the path so metric cardinality stays
// bounded.
func routeLabel(path string) string {
	if path == "/v1/orders" || !strings.HasPrefix(path, "/v1/orders/") {
		return path
	}
	if strings.HasSuffix(path, "/status") {
		return "/v1/orders/{id}/status"
	}
	return "/v1/orders/{id}"
}
