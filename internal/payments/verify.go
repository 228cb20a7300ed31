package payments

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleetwire/fleetwire/internal/signing"
)

type gatewayEnvelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	TenantID  string          `json:"tenant_id"`
	CreatedAt time.Time       `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// VerifyInbound checks the hex HMAC-SHA256 signature of a gateway webhook
// over the raw body and only then parses it. A missing header, a mismatch
// or a body without an event id all fail closed with ErrInvalid.
func VerifyInbound(rawBody []byte, signatureHeader, secret string) (*PaymentEvent, error) {
	if signatureHeader == "" {
		return nil, fmt.Errorf("%w: missing signature header", ErrInvalid)
	}
	if !signing.Verify([]byte(secret), rawBody, signatureHeader) {
		return nil, ErrInvalidSignature
	}

	var env gatewayEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", ErrInvalid, err)
	}
	if env.ID == "" {
		return nil, fmt.Errorf("%w: missing event id", ErrInvalid)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrInvalid)
	}

	evt := &PaymentEvent{
		ProviderEventID: env.ID,
		TenantID:        env.TenantID,
		Type:            env.Type,
		CreatedAt:       env.CreatedAt,
		Data:            env.Data,
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
