package deliveries

import (
	"context"
	"net/http"

	"github.com/iamolegga/valmid"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
	oa "github.com/fleetwire/fleetwire/internal/openapi"
)

// FailedLister lists pairs that ran out of attempts.
type FailedLister interface {
	ListTerminallyFailed(ctx context.Context, tenantID string, limit int) ([]Attempt, error)
}

type FailedRequest struct {
	TenantID string `in:"query=tenant_id" query:"tenant_id"                                 description:"Only return deliveries of this tenant"`
	Limit    int    `in:"query=limit"     query:"limit"     validate:"omitempty,min=1,max=500" description:"Maximum number of results (default 50)"`
}

type FailedResponse struct {
	Deliveries []AttemptDTO `json:"deliveries" description:"Final attempts of terminally failed deliveries, newest first"`
}

type RouteFailed struct {
	repo FailedLister
}

func NewRouteFailed(repo FailedLister) *RouteFailed {
	return &RouteFailed{repo: repo}
}

func (route *RouteFailed) Register(mux *http.ServeMux, r *openapi31.Reflector) {
	mux.Handle("GET /v1/deliveries/failed",
		valmid.Middleware[FailedRequest]()(route.Handler()),
	)
	RegisterFailedSchema(r)
}

func RegisterFailedSchema(r *openapi31.Reflector) {
	op, _ := r.NewOperationContext(http.MethodGet, "/v1/deliveries/failed")
	op.AddReqStructure(new(FailedRequest))
	op.AddRespStructure(struct {
		Data FailedResponse `json:"data"`
		Meta httptools.Meta `json:"meta"`
		_    struct{}       `title:"FailedResponse"`
	}{}, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = http.StatusOK
		cu.Description = "Terminally failed deliveries"
	})
	oa.AddErrorResponses(op)
	op.SetSummary("List terminally failed deliveries")
	op.SetDescription(
		"List event/endpoint pairs whose automatic retries are exhausted and need manual attention.",
	)
	op.SetTags("Deliveries")
	op.AddSecurity("ApiKeyAuth")
	r.AddOperation(op)
}

func (route *RouteFailed) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := valmid.Get[FailedRequest](r)

		attempts, err := route.repo.ListTerminallyFailed(r.Context(), input.TenantID, input.Limit)
		if err != nil {
			logger.FromContext(r.Context()).
				Error("failed to list failed deliveries", "error", err, "tenant_id", input.TenantID)
			httptools.InternalError(w, r)
			return
		}

		httptools.JSON(w, r, http.StatusOK, FailedResponse{
			Deliveries: ToAttemptDTOs(attempts),
		})
	})
}
