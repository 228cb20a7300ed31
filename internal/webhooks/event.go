package webhooks

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/fleetwire/fleetwire/internal/signing"
)

var ErrNotFound = errors.New("webhooks: not found")

// Event is a tenant event fanned out to subscribed endpoints. It is
// immutable apart from the cancellation mark.
type Event struct {
	ID          string
	TenantID    string
	Type        string
	Payload     json.RawMessage
	CreatedAt   time.Time
	CancelledAt *time.Time
}

func (e Event) Cancelled() bool {
	return e.CancelledAt != nil
}

// Envelope is the body delivered to endpoints.
func (e Event) Envelope() signing.Envelope {
	return signing.Envelope{
		ID:        e.ID,
		Type:      e.Type,
		TenantID:  e.TenantID,
		CreatedAt: e.CreatedAt,
		Data:      e.Payload,
	}
}

// Endpoint is a tenant's delivery destination. EventTypes holds
// subscription patterns such as "payment.*"; empty subscribes to all.
type Endpoint struct {
	ID         string
	TenantID   string
	URL        string
	Secret     string
	IsActive   bool
	EventTypes []string
}

// Job is the queued unit of work: one attempt of one event to one endpoint.
type Job struct {
	EventID    string `json:"event_id"`
	EndpointID string `json:"endpoint_id"`
	Attempt    int    `json:"attempt"`
}
