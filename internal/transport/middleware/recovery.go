package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/pkg/logger"
)

// RecoveryMiddleware converts panics into a 500 JSON error response.
// The panic value and stack stay in the logs, never in the body.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()))

					appErr := internal.NewInternalError("Internal server error", nil)
					status, body := appErr.ToHTTPResponse()
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(status)
					json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
