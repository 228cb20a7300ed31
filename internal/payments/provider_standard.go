package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// StandardProvider accepts Standard Webhooks callbacks. The webhook-id
// header is the event id; the signed timestamp bounds the replay window.
type StandardProvider struct{}

func NewStandardProvider() *StandardProvider {
	return &StandardProvider{}
}

func (p *StandardProvider) Name() string {
	return ProviderStandard
}

type standardEnvelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func (p *StandardProvider) Verify(
	_ context.Context,
	header http.Header,
	body []byte,
	secret string,
) (*PaymentEvent, error) {
	id := header.Get("webhook-id")
	if id == "" || header.Get("webhook-timestamp") == "" || header.Get("webhook-signature") == "" {
		return nil, fmt.Errorf("%w: missing standard webhook headers", ErrInvalid)
	}
	if secret == "" {
		return nil, ErrInvalidSignature
	}

	wh, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := wh.Verify(body, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var env standardEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", ErrInvalid, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrInvalid)
	}

	evt := &PaymentEvent{
		ProviderEventID: id,
		Type:            env.Type,
		CreatedAt:       env.Timestamp,
		Data:            env.Data,
	}
	if evt.CreatedAt.IsZero() {
		// verified above, so it parses
		sec, _ := strconv.ParseInt(header.Get("webhook-timestamp"), 10, 64)
		evt.CreatedAt = time.Unix(sec, 0).UTC()
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var data paymentData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: malformed data: %v", ErrInvalid, err)
		}
		if err := data.apply(evt); err != nil {
			return nil, err
		}
	}
	return evt, nil
}
