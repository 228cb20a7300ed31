package webhooks

import (
	"encoding/json"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/httptools"
)

// EventDTO is the API representation of an event.
type EventDTO struct {
	ID          string          `json:"id"                     description:"Event ID"`
	TenantID    string          `json:"tenant_id"              description:"Tenant owning the event"`
	Type        string          `json:"type"                   description:"Event type, e.g. trip.completed"`
	Payload     json.RawMessage `json:"payload"                description:"Event data as published"`
	CreatedAt   int64           `json:"created_at"             description:"Unix milliseconds when the event was accepted"`
	CancelledAt *int64          `json:"cancelled_at,omitempty" description:"Unix milliseconds when the event was cancelled"`

	Deliveries httptools.Expandable[[]deliveries.AttemptDTO] `json:"deliveries,omitzero" description:"Delivery attempts (requires expand=deliveries)"`
}

// eventSchema mirrors EventDTO for OpenAPI generation with nullable fields.
type eventSchema struct {
	ID          string                  `json:"id"                     description:"Event ID"                                           required:"true"`
	TenantID    string                  `json:"tenant_id"              description:"Tenant owning the event"                            required:"true"`
	Type        string                  `json:"type"                   description:"Event type, e.g. trip.completed"                    required:"true"`
	Payload     json.RawMessage         `json:"payload"                description:"Event data as published"                            required:"true"`
	CreatedAt   int64                   `json:"created_at"             description:"Unix milliseconds when the event was accepted"      required:"true"`
	CancelledAt *int64                  `json:"cancelled_at,omitempty" description:"Unix milliseconds when the event was cancelled"`
	Deliveries  []deliveries.AttemptDTO `json:"deliveries"             description:"Delivery attempts (requires expand=deliveries)" nullable:"true"`
}

func ToEventDTO(e Event) EventDTO {
	dto := EventDTO{
		ID:        e.ID,
		TenantID:  e.TenantID,
		Type:      e.Type,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
	if e.CancelledAt != nil {
		ms := e.CancelledAt.UnixMilli()
		dto.CancelledAt = &ms
	}
	return dto
}
