package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/metrics"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-Id"

// statusRecorder captures the status code. Unwrap keeps Flush reachable
// through http.ResponseController.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// instrument records request metrics and logs each request with a request id.
func instrument(next http.Handler, m *metrics.Metrics, logger interfaces.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithFields(r.Context(), map[string]any{"request_id": requestID})
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		route := routeLabel(r.URL.Path)
		status := strconv.Itoa(rec.status)
		m.ObserveRequest(r.Method, route, status, elapsed)
		logging.WithFields(logger, logging.ContextFields(ctx)).Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"elapsed", elapsed,
		)
	})
}

// routeLabel collapses paths into a fixed set of labels to keep metric
// cardinality bounded.
func routeLabel(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/docs" || strings.HasPrefix(path, "/docs/"):
		return "/docs/:page"
	case strings.HasPrefix(path, "/assets/"):
		return "/assets/*"
	case path == "/healthz", path == "/metrics", path == "/api/search", path == "/mcp":
		return path
	default:
		return "other"
	}
}
