package middleware

import "net/http"

// NoStore marks responses as uncacheable. Cart and wishlist snapshots change
// on every mutation, so a cached copy is always potentially stale.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
