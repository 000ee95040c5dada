package api

import (
	"net/http"
	"time"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/platform/obs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// loggingMiddleware logs end-to-end request duration and response size, and
// carries the request id into the context for downstream log lines.
func loggingMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			log.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.RequestURI(),
				"status": sw.code(),
				"bytes":  sw.bytes,
				"dur_ms": time.Since(start).Milliseconds(),
				"req_id": reqID,
			}).Info("request")
		})
	}
}

// metricsMiddleware records request counts and latency labelled by chi
// route pattern rather than raw path.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			m.ObserveRequest(r.Method, pattern, sw.code(), time.Since(start))
		})
	}
}
