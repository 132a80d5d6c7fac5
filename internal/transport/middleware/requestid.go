package middleware

import (
	"net/http"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/procureops/procurement-portal/pkg/logger"
)

// RequestID attaches a trace id to the request. Precedence: the caller's
// X-Trace-ID header, then the id chi's RequestID middleware already put in
// the context, then a fresh uuid. The id is echoed back in the response
// and bound to the context logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = chiMiddleware.GetReqID(r.Context())
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set("X-Trace-ID", traceID)

		ctx := logger.With(r.Context(), "traceID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
