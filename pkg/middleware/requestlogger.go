package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/shopstate/pkg/logger"
)

// RequestLogger stores a request-scoped logger, enriched with correlation_id,
// screen, trace_id and span_id, in the request context. Handlers read it with
// logger.FromContext.
//
// Mount it after RequestLogging and Tracing so those fields are present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
