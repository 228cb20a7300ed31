package httptools

import (
	"net/http"

	"github.com/swaggest/openapi-go/openapi31"
)

// Route mounts its handlers on mux and documents them on r.
type Route interface {
	Register(mux *http.ServeMux, r *openapi31.Reflector)
}
