package payments

import (
	"context"
	"fmt"

	"github.com/fleetwire/fleetwire/internal/infra/config"
)

// SecretStore looks up the shared secret a tenant configured for a provider.
type SecretStore interface {
	Secret(ctx context.Context, provider, tenantID string) (string, error)
}

// StaticSecrets serves secrets loaded from configuration.
type StaticSecrets map[string]map[string]string

func NewStaticSecrets(providers []config.ProviderConfig) StaticSecrets {
	s := make(StaticSecrets, len(providers))
	for _, p := range providers {
		tenants := make(map[string]string, len(p.Secrets))
		for _, ts := range p.Secrets {
			tenants[ts.TenantID] = ts.Secret
		}
		s[p.Name] = tenants
	}
	return s
}

func (s StaticSecrets) Secret(_ context.Context, provider, tenantID string) (string, error) {
	secret, ok := s[provider][tenantID]
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s secret", ErrUnknownTenant, tenantID, provider)
	}
	return secret, nil
}
