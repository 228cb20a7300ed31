package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/iamolegga/valmid"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
	oa "github.com/fleetwire/fleetwire/internal/openapi"
)

// EventPublisher accepts, reads and cancels events.
type EventPublisher interface {
	Publish(ctx context.Context, tenantID, eventType string, payload json.RawMessage) (Event, error)
	Cancel(ctx context.Context, eventID string) (Event, error)
	GetEvent(ctx context.Context, eventID string) (Event, error)
}

type PublishBody struct {
	TenantID string          `json:"tenant_id" validate:"required,max=64"  description:"Tenant the event belongs to"`
	Type     string          `json:"type"      validate:"required,max=128" description:"Event type, e.g. trip.completed"`
	Payload  json.RawMessage `json:"payload"   validate:"required"         description:"Event data, any JSON value"`
}

type PublishRequest struct {
	Body PublishBody `in:"body=json"`
}

// DeliveryHistory reads the attempts of an event for ?expand=deliveries.
type DeliveryHistory interface {
	History(ctx context.Context, eventID string) ([]deliveries.Attempt, error)
}

type EventRequest struct {
	EventID string `in:"path=event_id" path:"event_id" validate:"required" description:"Event ID"`
}

type EventExpand string

func (e *EventExpand) UnmarshalText(text []byte) error {
	*e = EventExpand(text)
	return nil
}

func (EventExpand) Enum() []any {
	return []any{EventExpandDeliveries}
}

const EventExpandDeliveries EventExpand = "deliveries"

type GetEventRequest struct {
	EventID string        `in:"path=event_id" path:"event_id" validate:"required"                  description:"Event ID"`
	Expand  []EventExpand `in:"query=expand"                  validate:"dive,oneof=deliveries" description:"Fields to expand (use ?expand=deliveries)" query:"expand"`
}

type RouteEvents struct {
	service EventPublisher
	history DeliveryHistory
}

func NewRouteEvents(service EventPublisher, history DeliveryHistory) *RouteEvents {
	return &RouteEvents{service: service, history: history}
}

func (route *RouteEvents) Register(mux *http.ServeMux, r *openapi31.Reflector) {
	mux.Handle("POST /v1/events",
		valmid.Middleware[PublishRequest]()(route.PublishHandler()),
	)
	mux.Handle("GET /v1/events/{event_id}",
		valmid.Middleware[GetEventRequest]()(route.GetHandler()),
	)
	mux.Handle("POST /v1/events/{event_id}/cancel",
		valmid.Middleware[EventRequest]()(route.CancelHandler()),
	)
	RegisterEventsSchema(r)
}

type eventEnvelope struct {
	Data eventSchema    `json:"data"`
	Meta httptools.Meta `json:"meta"`
	_    struct{}       `title:"EventResponse"`
}

func RegisterEventsSchema(r *openapi31.Reflector) {
	op, _ := r.NewOperationContext(http.MethodPost, "/v1/events")
	op.AddReqStructure(new(PublishBody))
	op.AddRespStructure(eventEnvelope{}, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = http.StatusAccepted
		cu.Description = "Event accepted; deliveries are queued"
	})
	oa.AddErrorResponses(op)
	op.SetSummary("Publish event")
	op.SetDescription(
		"Persist a tenant event and queue a signed delivery to every active endpoint subscribed to its type. The response does not wait for delivery.",
	)
	op.SetTags("Events")
	op.AddSecurity("ApiKeyAuth")
	r.AddOperation(op)

	op, _ = r.NewOperationContext(http.MethodGet, "/v1/events/{event_id}")
	op.AddReqStructure(new(GetEventRequest))
	op.AddRespStructure(eventEnvelope{}, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = http.StatusOK
		cu.Description = "Event"
	})
	oa.AddErrorResponses(op)
	oa.AddNotFoundResponse(op)
	op.SetSummary("Get event")
	op.SetDescription("Get an event. Use ?expand=deliveries to include its delivery attempts.")
	op.SetTags("Events")
	op.AddSecurity("ApiKeyAuth")
	r.AddOperation(op)

	op, _ = r.NewOperationContext(http.MethodPost, "/v1/events/{event_id}/cancel")
	op.AddReqStructure(new(EventRequest))
	op.AddRespStructure(eventEnvelope{}, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = http.StatusOK
		cu.Description = "Cancelled event"
	})
	oa.AddErrorResponses(op)
	oa.AddNotFoundResponse(op)
	op.SetSummary("Cancel event")
	op.SetDescription(
		"Stop all further delivery attempts of the event. Attempts already in flight complete normally.",
	)
	op.SetTags("Events")
	op.AddSecurity("ApiKeyAuth")
	r.AddOperation(op)
}

func (route *RouteEvents) PublishHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := valmid.Get[PublishRequest](r)
		log := logger.FromContext(r.Context())

		if !json.Valid(input.Body.Payload) {
			httptools.BadRequest(w, r, "payload must be valid JSON")
			return
		}

		event, err := route.service.Publish(r.Context(), input.Body.TenantID, input.Body.Type, input.Body.Payload)
		if err != nil {
			if event.ID == "" {
				log.Error("failed to publish event", "error", err, "tenant_id", input.Body.TenantID)
				httptools.InternalError(w, r)
				return
			}
			// The event is stored; endpoints that failed to queue are logged.
			log.Error("event accepted with dispatch errors", "error", err, "event_id", event.ID)
		}

		httptools.JSON(w, r, http.StatusAccepted, ToEventDTO(event))
	})
}

func (route *RouteEvents) GetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := valmid.Get[GetEventRequest](r)

		event, err := route.service.GetEvent(r.Context(), input.EventID)
		if route.writeError(w, r, err, input.EventID) {
			return
		}

		resp := ToEventDTO(event)
		if slices.Contains(input.Expand, EventExpandDeliveries) {
			attempts, err := route.history.History(r.Context(), event.ID)
			if err != nil {
				logger.FromContext(r.Context()).Error("failed to load delivery history", "error", err, "event_id", event.ID)
				httptools.InternalError(w, r)
				return
			}
			resp.Deliveries = httptools.Set(deliveries.ToAttemptDTOs(attempts))
		}
		httptools.JSON(w, r, http.StatusOK, resp)
	})
}

func (route *RouteEvents) CancelHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := valmid.Get[EventRequest](r)

		event, err := route.service.Cancel(r.Context(), input.EventID)
		if route.writeError(w, r, err, input.EventID) {
			return
		}
		httptools.JSON(w, r, http.StatusOK, ToEventDTO(event))
	})
}

func (route *RouteEvents) writeError(w http.ResponseWriter, r *http.Request, err error, eventID string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		httptools.NotFound(w, r, "event not found")
		return true
	}
	logger.FromContext(r.Context()).Error("failed to load event", "error", err, "event_id", eventID)
	httptools.InternalError(w, r)
	return true
}
