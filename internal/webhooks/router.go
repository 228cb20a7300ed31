package webhooks

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed casbin_model.conf
var casbinModel string

const actDeliver = "deliver"

// Router decides which endpoints receive an event type. Each endpoint owns
// one policy per subscription pattern; a trailing "*" matches any suffix.
type Router struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
	loaded   map[string][]string
}

func NewRouter() (*Router, error) {
	m, err := model.NewModelFromString(casbinModel)
	if err != nil {
		return nil, fmt.Errorf("webhooks: failed to load casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("webhooks: failed to create enforcer: %w", err)
	}

	return &Router{enforcer: e, loaded: make(map[string][]string)}, nil
}

// SetEndpoint replaces the subscription policies of ep.
func (r *Router) SetEndpoint(ep Endpoint) error {
	patterns := normalizePatterns(ep.EventTypes)

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.setLocked(ep.ID, patterns)
}

func (r *Router) setLocked(endpointID string, patterns []string) error {
	if _, err := r.enforcer.RemoveFilteredPolicy(0, endpointID); err != nil {
		return fmt.Errorf("webhooks: failed to reset policies for %s: %w", endpointID, err)
	}
	for _, p := range patterns {
		if _, err := r.enforcer.AddPolicy(endpointID, p, actDeliver); err != nil {
			return fmt.Errorf("webhooks: failed to add policy %s for %s: %w", p, endpointID, err)
		}
	}
	r.loaded[endpointID] = patterns
	return nil
}

// Matches reports whether ep subscribes to eventType. Policies are
// refreshed when the endpoint's patterns changed since they were loaded.
func (r *Router) Matches(ep Endpoint, eventType string) (bool, error) {
	patterns := normalizePatterns(ep.EventTypes)

	r.mu.RLock()
	current, ok := r.loaded[ep.ID]
	r.mu.RUnlock()

	if !ok || !slices.Equal(current, patterns) {
		r.mu.Lock()
		err := r.setLocked(ep.ID, patterns)
		r.mu.Unlock()
		if err != nil {
			return false, err
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed, err := r.enforcer.Enforce(ep.ID, eventType, actDeliver)
	if err != nil {
		return false, fmt.Errorf("webhooks: failed to evaluate routing for %s: %w", ep.ID, err)
	}
	return allowed, nil
}

func normalizePatterns(eventTypes []string) []string {
	patterns := make([]string, 0, len(eventTypes))
	for _, t := range eventTypes {
		if t = strings.TrimSpace(t); t != "" {
			patterns = append(patterns, t)
		}
	}
	if len(patterns) == 0 {
		return []string{"*"}
	}
	slices.Sort(patterns)
	return slices.Compact(patterns)
}
