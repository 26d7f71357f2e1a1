package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edgepulse/edgepulse/server/internal/metrics"
)

// routes are the paths reported as-is in metrics labels. Anything else is
// reported as "other" so unknown URLs cannot grow label cardinality.
var routes = map[string]struct{}{
	"/analytics": {},
	"/healthz":   {},
	"/regions":   {},
	"/metrics":   {},
}

func routeLabel(path string) string {
	if _, ok := routes[path]; ok {
		return path
	}
	return "other"
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	code    int
	written bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.written {
		s.code = code
		s.written = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.written {
		s.code = http.StatusOK
		s.written = true
	}
	return s.ResponseWriter.Write(b)
}

// observe records every request in m and logs it at debug level.
func observe(m *metrics.Collector, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		m.ObserveRequest(routeLabel(r.URL.Path), rec.code, elapsed)
		slog.Debug("api: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.code,
			"duration", elapsed,
		)
	})
}
