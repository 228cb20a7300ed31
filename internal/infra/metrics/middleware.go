package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zenazn/goji/web/mutil"
)

// Middleware returns HTTP middleware that records request metrics. Paths are
// labelled with the matched mux pattern to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := mutil.WrapWriter(w)
		next.ServeHTTP(lw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		recordHTTPRequest(r.Method, path, strconv.Itoa(lw.Status()), time.Since(start).Seconds())
	})
}
