package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// SlowRequestThreshold marks requests that are always logged.
const SlowRequestThreshold = time.Second

// APILogging logs API requests that fail or run slow. Health and metrics
// probes are skipped.
func APILogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapped, r)
		elapsed := time.Since(start)

		if wrapped.statusCode >= 400 || elapsed >= SlowRequestThreshold {
			log.Printf("[API] %s %s %d %dB %s", r.Method, r.URL.Path,
				wrapped.statusCode, wrapped.bytesWritten, elapsed.Round(time.Millisecond))
		}
	})
}
