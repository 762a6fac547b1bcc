package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/shopstate/pkg/httputil"
	"github.com/utafrali/shopstate/pkg/logger"
)

// ContentTypeJSON rejects request bodies that are not declared as JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.ContentLength > 0 {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ScreenFromPath records the {screen} URL parameter in the request context
// and on the request-scoped logger.
func ScreenFromPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		screen := chi.URLParam(r, "screen")
		ctx := logger.WithScreen(r.Context(), screen)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("screen", screen)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
