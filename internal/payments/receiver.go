package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetwire/fleetwire/internal/infra/logger"
	"github.com/fleetwire/fleetwire/internal/infra/metrics"
)

// PaymentHandler is the business logic behind verified payment events.
type PaymentHandler interface {
	HandlePayment(ctx context.Context, evt *PaymentEvent) error
}

// InboundStore claims events for exactly-once processing.
type InboundStore interface {
	Claim(ctx context.Context, e InboundEvent) (bool, error)
	Complete(ctx context.Context, provider, providerEventID string) error
	Release(ctx context.Context, provider, providerEventID string) error
}

type Result string

const (
	ResultAccepted  Result = "accepted"
	ResultDuplicate Result = "duplicate"
)

// ClockSkew is how far in the future an event timestamp may be.
const ClockSkew = 5 * time.Minute

// Receiver verifies provider webhooks and hands first-seen events to the
// handler. Duplicates are accepted without side effects.
type Receiver struct {
	providers map[string]Provider
	secrets   SecretStore
	store     InboundStore
	handler   PaymentHandler
	window    time.Duration
	now       func() time.Time
}

func NewReceiver(
	secrets SecretStore,
	store InboundStore,
	handler PaymentHandler,
	providers ...Provider,
) *Receiver {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Receiver{
		providers: byName,
		secrets:   secrets,
		store:     store,
		handler:   handler,
		now:       time.Now,
	}
}

// WithReplayWindow rejects events created more than window ago. Claims
// must outlive the window, otherwise a pruned event could be replayed.
// A zero window accepts events of any age.
func (r *Receiver) WithReplayWindow(window time.Duration, now func() time.Time) *Receiver {
	r.window = window
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Receiver) checkAge(evt *PaymentEvent) error {
	if r.window <= 0 {
		return nil
	}
	if evt.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing event timestamp", ErrInvalid)
	}
	age := r.now().Sub(evt.CreatedAt)
	if age > r.window {
		return fmt.Errorf("%w: event created %s ago, outside replay window", ErrInvalid, age.Truncate(time.Second))
	}
	if age < -ClockSkew {
		return fmt.Errorf("%w: event timestamp is in the future", ErrInvalid)
	}
	return nil
}

func (r *Receiver) Receive(
	ctx context.Context,
	providerName, tenantID string,
	header http.Header,
	body []byte,
) (Result, error) {
	provider, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}

	secret, err := r.secrets.Secret(ctx, providerName, tenantID)
	if err != nil {
		return "", err
	}

	evt, err := provider.Verify(ctx, header, body, secret)
	if err != nil {
		metrics.RecordInbound(providerName, "invalid")
		return "", err
	}
	if evt.TenantID != "" && evt.TenantID != tenantID {
		metrics.RecordInbound(providerName, "invalid")
		return "", fmt.Errorf("%w: event belongs to tenant %s", ErrInvalid, evt.TenantID)
	}
	if err := r.checkAge(evt); err != nil {
		metrics.RecordInbound(providerName, "invalid")
		return "", err
	}
	evt.Provider = providerName
	evt.TenantID = tenantID

	ctx, log := logger.With(ctx,
		"provider", providerName,
		"tenant_id", tenantID,
		"provider_event_id", evt.ProviderEventID,
	)

	first, err := r.store.Claim(ctx, InboundEvent{
		Provider:        providerName,
		ProviderEventID: evt.ProviderEventID,
		TenantID:        tenantID,
		EventType:       evt.Type,
		SignatureHeader: signatureOf(header),
		RawBody:         body,
		Verified:        true,
	})
	if err != nil {
		metrics.RecordInbound(providerName, "error")
		return "", err
	}
	if !first {
		log.Info("duplicate payment webhook ignored")
		metrics.RecordInbound(providerName, string(ResultDuplicate))
		return ResultDuplicate, nil
	}

	if err := r.handler.HandlePayment(ctx, evt); err != nil {
		metrics.RecordInbound(providerName, "error")
		if relErr := r.store.Release(context.WithoutCancel(ctx), providerName, evt.ProviderEventID); relErr != nil {
			log.Error("failed to release inbound claim", "error", relErr)
			return "", errors.Join(err, relErr)
		}
		return "", err
	}

	if err := r.store.Complete(context.WithoutCancel(ctx), providerName, evt.ProviderEventID); err != nil {
		log.Warn("failed to mark inbound event processed", "error", err)
	}

	metrics.RecordInbound(providerName, string(ResultAccepted))
	log.Info("payment webhook accepted", "type", evt.Type)
	return ResultAccepted, nil
}

var signatureHeaders = []string{"X-Webhook-Signature", "X-Signature", "webhook-signature"}

func signatureOf(h http.Header) string {
	for _, name := range signatureHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}
