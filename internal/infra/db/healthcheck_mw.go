package db

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheckMiddleware answers 503 while the database does not respond to
// a ping. With a nil next handler it replies 200 itself.
func HealthCheckMiddleware(db *DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database is down", http.StatusServiceUnavailable)
				return
			}
			if next != nil {
				next.ServeHTTP(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	}
}
