package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PublishFunc publishes a tenant event to outbound webhooks. Publishing
// the same id twice must not create a second event.
type PublishFunc func(ctx context.Context, eventID, tenantID, eventType string, payload json.RawMessage) error

var forwardedNamespace = uuid.MustParse("6f1c8a52-3d0e-4b7a-9c55-2e8f0b4d7a19")

// ForwardedEventID is the tenant event id for a provider event. It is
// stable, so a provider retry after a failed forward reuses the event.
func ForwardedEventID(provider, providerEventID string) string {
	return uuid.NewSHA1(forwardedNamespace, []byte(provider+"/"+providerEventID)).String()
}

// Forwarder turns verified payment events into tenant events, so
// subscribed endpoints receive them as "payment.*" webhooks.
type Forwarder struct {
	publish PublishFunc
}

func NewForwarder(publish PublishFunc) *Forwarder {
	return &Forwarder{publish: publish}
}

type forwardedPayment struct {
	Provider        string          `json:"provider"`
	ProviderEventID string          `json:"provider_event_id"`
	Method          Method          `json:"method,omitempty"`
	Amount          int64           `json:"amount,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Status          string          `json:"status,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

func (f *Forwarder) HandlePayment(ctx context.Context, evt *PaymentEvent) error {
	payload, err := json.Marshal(forwardedPayment{
		Provider:        evt.Provider,
		ProviderEventID: evt.ProviderEventID,
		Method:          evt.Method,
		Amount:          evt.Amount,
		Currency:        evt.Currency,
		Status:          evt.Status,
		Reference:       evt.Reference,
		Data:            evt.Data,
	})
	if err != nil {
		return fmt.Errorf("payments: failed to encode event: %w", err)
	}

	id := ForwardedEventID(evt.Provider, evt.ProviderEventID)
	if err := f.publish(ctx, id, evt.TenantID, EventType(evt.Type), payload); err != nil {
		return fmt.Errorf("payments: failed to forward event: %w", err)
	}
	return nil
}

// EventType maps a provider event type into the "payment." namespace.
func EventType(providerType string) string {
	if strings.HasPrefix(providerType, "payment.") {
		return providerType
	}
	return "payment." + providerType
}
