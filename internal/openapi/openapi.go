package openapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/httptools"
)

var schemaPackages = []string{"Webhooks", "Deliveries", "Httptools", "Payments"}

// NewReflector returns a reflector carrying the API info and the X-Api-Key scheme.
func NewReflector() *openapi31.Reflector {
	r := openapi31.NewReflector()
	r.Spec.Info.
		WithTitle("Fleetwire Webhooks API").
		WithVersion("1.0.0").
		WithDescription("Outbound webhook delivery and inbound payment webhook verification")

	r.Spec.SetAPIKeySecurity("ApiKeyAuth", "X-Api-Key", "header", "API key for authentication")

	// DeliveriesAttemptDTO -> AttemptDTO
	r.JSONSchemaReflector().InterceptDefName(func(_ reflect.Type, name string) string {
		for _, pkg := range schemaPackages {
			if trimmed, ok := strings.CutPrefix(name, pkg); ok {
				return trimmed
			}
		}
		return name
	})

	return r
}

type errorResponse struct {
	status      int
	description string
}

var commonErrors = []errorResponse{
	{http.StatusBadRequest, "Bad Request"},
	{http.StatusUnauthorized, "Unauthorized - missing or invalid API key"},
	{http.StatusUnprocessableEntity, "Validation Failed"},
	{http.StatusInternalServerError, "Internal Server Error"},
}

// AddErrorResponses documents the problem responses every admin operation can return.
func AddErrorResponses(op openapi.OperationContext) {
	addErrors(op, commonErrors...)
}

func AddNotFoundResponse(op openapi.OperationContext) {
	addErrors(op, errorResponse{http.StatusNotFound, "Not Found"})
}

func addErrors(op openapi.OperationContext, responses ...errorResponse) {
	for _, resp := range responses {
		op.AddRespStructure(new(httptools.ErrorResponse), func(cu *openapi.ContentUnit) {
			cu.HTTPStatus = resp.status
			cu.Description = resp.description
		})
	}
}
