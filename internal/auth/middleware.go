package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
)

// HeaderName carries the admin API key.
const HeaderName = "X-Api-Key"

func Middleware(apiKey string) httptools.Middleware {
	keyBytes := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(HeaderName)
			if provided == "" {
				httptools.Unauthorized(w, r, "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), keyBytes) != 1 {
				logger.FromContext(r.Context()).Warn("rejected request with invalid api key")
				httptools.Unauthorized(w, r, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
