package payments

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
)

const maxBodyBytes = 1 << 20

// InboundReceiver verifies and processes a provider webhook.
type InboundReceiver interface {
	Receive(ctx context.Context, provider, tenantID string, header http.Header, body []byte) (Result, error)
}

type RouteWebhook struct {
	receiver InboundReceiver
}

func NewRouteWebhook(receiver InboundReceiver) *RouteWebhook {
	return &RouteWebhook{receiver: receiver}
}

func (route *RouteWebhook) Register(mux *http.ServeMux, _ *openapi31.Reflector) {
	mux.Handle("POST /v1/webhook/{provider}/{tenant_id}", route.Handler())
	// Provider callbacks are not part of the documented API
}

type ReceiveResponse struct {
	Status Result `json:"status"`
}

func (route *RouteWebhook) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provider := r.PathValue("provider")
		tenantID := r.PathValue("tenant_id")
		log := logger.FromContext(r.Context()).With("provider", provider, "tenant_id", tenantID)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Warn("failed to read webhook body", "error", err)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httptools.PayloadTooLarge(w, r, "webhook body exceeds 1MB")
				return
			}
			httptools.BadRequest(w, r, "unreadable body")
			return
		}

		result, err := route.receiver.Receive(r.Context(), provider, tenantID, r.Header, body)
		switch {
		case err == nil:
			httptools.JSON(w, r, http.StatusOK, ReceiveResponse{Status: result})

		case errors.Is(err, ErrUnknownProvider), errors.Is(err, ErrUnknownTenant):
			log.Info("webhook for unknown provider or tenant", "error", err)
			httptools.NotFound(w, r, "unknown provider or tenant")

		case errors.Is(err, ErrInvalid):
			log.Warn("rejected inbound webhook", "error", err, "remote_addr", r.RemoteAddr)
			httptools.BadRequest(w, r, "invalid webhook")

		default:
			log.Error("failed to process inbound webhook", "error", err)
			httptools.InternalError(w, r)
		}
	})
}
