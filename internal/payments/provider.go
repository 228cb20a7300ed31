package payments

import (
	"context"
	"net/http"
)

// Provider verifies and parses the webhooks of one payment provider.
type Provider interface {
	Name() string
	Verify(ctx context.Context, header http.Header, body []byte, secret string) (*PaymentEvent, error)
}

const (
	ProviderGateway      = "gateway"
	ProviderLemonSqueezy = "lemonsqueezy"
	ProviderStandard     = "standard"
)

// GatewayProvider handles the fleet payment gateway, which signs the raw
// body with a hex HMAC in a single header.
type GatewayProvider struct {
	header string
}

func NewGatewayProvider(signatureHeader string) *GatewayProvider {
	if signatureHeader == "" {
		signatureHeader = "X-Webhook-Signature"
	}
	return &GatewayProvider{header: signatureHeader}
}

func (p *GatewayProvider) Name() string {
	return ProviderGateway
}

func (p *GatewayProvider) Verify(
	_ context.Context,
	header http.Header,
	body []byte,
	secret string,
) (*PaymentEvent, error) {
	return VerifyInbound(body, header.Get(p.header), secret)
}
