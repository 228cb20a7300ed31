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

// HistoryReader reads the attempt history of an event.
type HistoryReader interface {
	History(ctx context.Context, eventID string) ([]Attempt, error)
}

type HistoryRequest struct {
	EventID string `in:"path=event_id" path:"event_id" validate:"required" description:"Event ID"`
}

type HistoryResponse struct {
	EventID  string       `json:"event_id" description:"Event ID"`
	Attempts []AttemptDTO `json:"attempts" description:"Attempts ordered by endpoint and attempt number"`
}

type RouteHistory struct {
	repo HistoryReader
}

func NewRouteHistory(repo HistoryReader) *RouteHistory {
	return &RouteHistory{repo: repo}
}

func (route *RouteHistory) Register(mux *http.ServeMux, r *openapi31.Reflector) {
	mux.Handle("GET /v1/events/{event_id}/deliveries",
		valmid.Middleware[HistoryRequest]()(route.Handler()),
	)
	RegisterHistorySchema(r)
}

func RegisterHistorySchema(r *openapi31.Reflector) {
	op, _ := r.NewOperationContext(http.MethodGet, "/v1/events/{event_id}/deliveries")
	op.AddReqStructure(new(HistoryRequest))
	op.AddRespStructure(struct {
		Data HistoryResponse `json:"data"`
		Meta httptools.Meta  `json:"meta"`
		_    struct{}        `title:"HistoryResponse"`
	}{}, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = http.StatusOK
		cu.Description = "Delivery attempts of the event"
	})
	oa.AddErrorResponses(op)
	op.SetSummary("Get delivery history")
	op.SetDescription("List every delivery attempt recorded for an event across all endpoints.")
	op.SetTags("Deliveries")
	op.AddSecurity("ApiKeyAuth")
	r.AddOperation(op)
}

func (route *RouteHistory) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := valmid.Get[HistoryRequest](r)

		attempts, err := route.repo.History(r.Context(), input.EventID)
		if err != nil {
			logger.FromContext(r.Context()).
				Error("failed to get delivery history", "error", err, "event_id", input.EventID)
			httptools.InternalError(w, r)
			return
		}

		httptools.JSON(w, r, http.StatusOK, HistoryResponse{
			EventID:  input.EventID,
			Attempts: ToAttemptDTOs(attempts),
		})
	})
}
