package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"diet-backend/internal/metrics"
	"diet-backend/pkg/utils"
)

// PanicRecovery turns a handler panic into a JSON 500 and counts it.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.HTTPPanicsTotal.Inc()
			log.Printf("[Panic] %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
