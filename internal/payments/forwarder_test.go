package payments_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/payments"
)

func TestEventType(t *testing.T) {
	assert.Equal(t, "payment.completed", payments.EventType("payment.completed"))
	assert.Equal(t, "payment.subscription.created", payments.EventType("subscription.created"))
}

func TestForwarder_Publishes(t *testing.T) {
	var gotID, gotTenant, gotType string
	var gotPayload json.RawMessage
	f := payments.NewForwarder(func(_ context.Context, id, tenantID, eventType string, payload json.RawMessage) error {
		gotID, gotTenant, gotType, gotPayload = id, tenantID, eventType, payload
		return nil
	})

	err := f.HandlePayment(context.Background(), &payments.PaymentEvent{
		Provider:        "gateway",
		ProviderEventID: "pay_evt_1",
		TenantID:        "acme",
		Type:            "payment.completed",
		Method:          payments.MethodCard,
		Amount:          990,
		Currency:        "USD",
		Data:            json.RawMessage(`{"x":1}`),
	})
	require.NoError(t, err)

	assert.Equal(t, payments.ForwardedEventID("gateway", "pay_evt_1"), gotID)
	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, "payment.completed", gotType)
	assert.JSONEq(t, `{"provider":"gateway","provider_event_id":"pay_evt_1","method":"card","amount":990,"currency":"USD","data":{"x":1}}`, string(gotPayload))
}

func TestForwarder_PublishError(t *testing.T) {
	boom := errors.New("boom")
	f := payments.NewForwarder(func(context.Context, string, string, string, json.RawMessage) error { return boom })

	err := f.HandlePayment(context.Background(), &payments.PaymentEvent{TenantID: "acme", Type: "payment.failed"})
	assert.ErrorIs(t, err, boom)
}

func TestForwardedEventID(t *testing.T) {
	id := payments.ForwardedEventID("gateway", "pay_evt_1")
	assert.Equal(t, id, payments.ForwardedEventID("gateway", "pay_evt_1"))
	assert.NotEqual(t, id, payments.ForwardedEventID("standard", "pay_evt_1"))
	assert.NotEqual(t, id, payments.ForwardedEventID("gateway", "pay_evt_2"))
}
