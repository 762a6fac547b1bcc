package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/shopstate/pkg/logger"
)

// Headers understood by the host bridge.
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderScreen        = "X-Screen"
)

// RequestLogging logs each request with its duration, status and correlation
// ID. A missing X-Correlation-ID is generated; an X-Screen header names the
// UI screen that issued the request.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(HeaderCorrelationID)
			if correlationID == "" {
				correlationID = uuid.New().String()
			}

			ctx := logger.WithCorrelationID(r.Context(), correlationID)
			if screen := r.Header.Get(HeaderScreen); screen != "" {
				ctx = logger.WithScreen(ctx, screen)
			}
			r = r.WithContext(ctx)

			w.Header().Set(HeaderCorrelationID, correlationID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logger.WithContext(ctx, l).InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
