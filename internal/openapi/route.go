package openapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-http-utils/headers"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
)

// Route serves the API document and a Swagger UI page rendering it.
type Route struct {
	reflector *openapi31.Reflector

	once sync.Once
	doc  []byte
	err  error
}

func NewRoute(reflector *openapi31.Reflector) *Route {
	return &Route{reflector: reflector}
}

func (route *Route) Register(mux *http.ServeMux, _ *openapi31.Reflector) {
	mux.HandleFunc("GET /openapi.json", route.serveJSON)
	mux.HandleFunc("GET /docs", route.serveUI)
}

// document marshals the OpenAPI document once. Routes add their operations during
// startup, before the first request arrives.
func (route *Route) document() ([]byte, error) {
	route.once.Do(func() {
		route.doc, route.err = json.Marshal(route.reflector.Spec)
	})
	return route.doc, route.err
}

func (route *Route) serveJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := route.document()
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to render openapi document", "error", err)
		httptools.InternalError(w, r)
		return
	}
	w.Header().Set(headers.ContentType, "application/json")
	_, _ = w.Write(doc)
}

func (route *Route) serveUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(headers.ContentType, "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerUIHTML))
}

const swaggerUIHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Fleetwire API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.json", dom_id: "#swagger-ui", deepLinking: true })
  </script>
</body>
</html>`
