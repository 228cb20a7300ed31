package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/iamolegga/lemonsqueezy-go"
)

const lemonSqueezyIDPrefix = "ls_"

// LemonSqueezyProvider verifies LemonSqueezy subscription webhooks with the
// SDK. LemonSqueezy sends no delivery id, so the event id is derived from
// the body digest: a redelivered body maps to the same id.
type LemonSqueezyProvider struct{}

func NewLemonSqueezyProvider() *LemonSqueezyProvider {
	return &LemonSqueezyProvider{}
}

func (p *LemonSqueezyProvider) Name() string {
	return ProviderLemonSqueezy
}

func (p *LemonSqueezyProvider) Verify(
	ctx context.Context,
	header http.Header,
	body []byte,
	secret string,
) (*PaymentEvent, error) {
	signature := header.Get("X-Signature")
	if signature == "" {
		return nil, fmt.Errorf("%w: missing X-Signature header", ErrInvalid)
	}

	client := lemonsqueezy.New(lemonsqueezy.WithSigningSecret(secret))
	if secret == "" || !client.Webhooks.Verify(ctx, signature, body) {
		return nil, ErrInvalidSignature
	}

	var request lemonsqueezy.WebhookRequestSubscription
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", ErrInvalid, err)
	}

	eventName := request.Meta.EventName
	if eventName == "" {
		eventName = header.Get("X-Event-Name")
	}
	if !strings.HasPrefix(eventName, "subscription_") {
		return nil, fmt.Errorf("%w: unsupported event %q", ErrInvalid, eventName)
	}

	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	_ = json.Unmarshal(body, &raw)

	sum := sha256.Sum256(body)
	attrs := request.Data.Attributes

	return &PaymentEvent{
		ProviderEventID: lemonSqueezyIDPrefix + hex.EncodeToString(sum[:]),
		Type:            strings.Replace(eventName, "_", ".", 1),
		Method:          MethodCard,
		Status:          attrs.Status,
		Reference:       request.Data.ID,
		CreatedAt:       attrs.UpdatedAt,
		Data:            raw.Data,
	}, nil
}
