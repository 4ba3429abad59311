package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anish-u/insight-guard/internal/metrics"
)

// metricsResponseWriter wraps http.ResponseWriter to capture the
// status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	mrw.statusCode = code
	mrw.ResponseWriter.WriteHeader(code)
}

// Metrics returns the Prometheus metrics middleware.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics endpoint itself
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			mrw := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(mrw, r)

			path := normalizePath(r.URL.Path)

			metrics.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(mrw.statusCode),
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				r.Method,
				path,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath replaces dynamic path segments with placeholders so
// metric label cardinality stays bounded. Scan ids are the only
// dynamic segments this API serves.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if isScanID(segment) {
			segments[i] = "{scan_id}"
		}
	}
	return strings.Join(segments, "/")
}

// isScanID matches the natural scan key formats, e.g.
// weekly_dhs_2025_03_wk2, monthly_dhs_web_2025_03,
// dept_scan_it_2025_04.
func isScanID(s string) bool {
	return strings.HasPrefix(s, "weekly_dhs_") ||
		strings.HasPrefix(s, "monthly_dhs_web_") ||
		strings.HasPrefix(s, "dept_scan_")
}
