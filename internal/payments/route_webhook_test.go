package payments_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/payments"
	"github.com/fleetwire/fleetwire/internal/payments/mocks"
)

func TestRouteWebhook_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		result payments.Result
		err    error
		want   int
	}{
		{"accepted", payments.ResultAccepted, nil, http.StatusOK},
		{"duplicate", payments.ResultDuplicate, nil, http.StatusOK},
		{"invalid signature", "", payments.ErrInvalidSignature, http.StatusBadRequest},
		{"malformed", "", fmt.Errorf("%w: malformed body", payments.ErrInvalid), http.StatusBadRequest},
		{"unknown provider", "", payments.ErrUnknownProvider, http.StatusNotFound},
		{"unknown tenant", "", payments.ErrUnknownTenant, http.StatusNotFound},
		{"handler error", "", errors.New("downstream"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receiver := mocks.NewMockInboundReceiver(t)
			receiver.EXPECT().
				Receive(mock.Anything, "gateway", "acme", mock.Anything, []byte(`{"id":"1"}`)).
				Return(tt.result, tt.err)

			mux := http.NewServeMux()
			payments.NewRouteWebhook(receiver).Register(mux, openapi31.NewReflector())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/webhook/gateway/acme", strings.NewReader(`{"id":"1"}`))
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.err == nil {
				assert.Contains(t, w.Body.String(), string(tt.result))
			}
		})
	}
}

func TestRouteWebhook_BodyTooLarge(t *testing.T) {
	receiver := mocks.NewMockInboundReceiver(t)

	mux := http.NewServeMux()
	payments.NewRouteWebhook(receiver).Register(mux, openapi31.NewReflector())

	w := httptest.NewRecorder()
	big := strings.Repeat("a", 2<<20)
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/webhook/gateway/acme", strings.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
