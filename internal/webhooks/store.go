package webhooks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fleetwire/fleetwire/internal/infra/config"
	"github.com/fleetwire/fleetwire/internal/infra/db"
)

// Store persists events and endpoints. Timestamps are unix milliseconds.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) CreateEvent(ctx context.Context, e Event) error {
	query := s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (id, tenant_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.db.TableName("webhook_events")))

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.TenantID, e.Type, string(e.Payload), e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("webhooks: failed to create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (Event, error) {
	query := s.db.Rebind(fmt.Sprintf(`
		SELECT id, tenant_id, type, payload, created_at, cancelled_at
		FROM %s
		WHERE id = $1
	`, s.db.TableName("webhook_events")))

	var e Event
	var payload string
	var createdAt int64
	var cancelledAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.TenantID, &e.Type, &payload, &createdAt, &cancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	if err != nil {
		return Event{}, fmt.Errorf("webhooks: failed to get event: %w", err)
	}

	e.Payload = []byte(payload)
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	if cancelledAt.Valid {
		t := time.UnixMilli(cancelledAt.Int64).UTC()
		e.CancelledAt = &t
	}
	return e, nil
}

// CancelEvent marks the event cancelled. Cancelling twice keeps the first mark.
func (s *Store) CancelEvent(ctx context.Context, id string, at time.Time) (Event, error) {
	query := s.db.Rebind(fmt.Sprintf(`
		UPDATE %s SET cancelled_at = $1
		WHERE id = $2 AND cancelled_at IS NULL
	`, s.db.TableName("webhook_events")))

	if _, err := s.db.ExecContext(ctx, query, at.UnixMilli(), id); err != nil {
		return Event{}, fmt.Errorf("webhooks: failed to cancel event: %w", err)
	}
	return s.GetEvent(ctx, id)
}

// Prune deletes events created before the cutoff.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`DELETE FROM %s WHERE created_at < $1`, s.db.TableName("webhook_events"),
	))

	res, err := s.db.ExecContext(ctx, query, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("webhooks: failed to prune events: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) UpsertEndpoint(ctx context.Context, ep Endpoint) error {
	now := time.Now().UnixMilli()
	query := s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (id, tenant_id, url, secret, is_active, event_types, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			url = excluded.url,
			secret = excluded.secret,
			is_active = excluded.is_active,
			event_types = excluded.event_types,
			updated_at = excluded.updated_at
	`, s.db.TableName("webhook_endpoints")))

	_, err := s.db.ExecContext(ctx, query,
		ep.ID, ep.TenantID, ep.URL, ep.Secret, ep.IsActive,
		strings.Join(ep.EventTypes, ","), now, now,
	)
	if err != nil {
		return fmt.Errorf("webhooks: failed to upsert endpoint %s: %w", ep.ID, err)
	}
	return nil
}

// SeedEndpoints upserts the endpoints declared in configuration.
func (s *Store) SeedEndpoints(ctx context.Context, tenants []config.TenantConfig) (int, error) {
	var n int
	for _, tenant := range tenants {
		for _, ep := range tenant.Endpoints {
			err := s.UpsertEndpoint(ctx, Endpoint{
				ID:         ep.ID,
				TenantID:   tenant.ID,
				URL:        ep.URL,
				Secret:     ep.Secret,
				IsActive:   ep.IsActive(),
				EventTypes: ep.EventTypes,
			})
			if err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

const endpointColumns = `id, tenant_id, url, secret, is_active, event_types`

func (s *Store) GetEndpoint(ctx context.Context, id string) (Endpoint, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1`, endpointColumns, s.db.TableName("webhook_endpoints"),
	))

	ep, err := scanEndpoint(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Endpoint{}, fmt.Errorf("%w: endpoint %s", ErrNotFound, id)
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("webhooks: failed to get endpoint: %w", err)
	}
	return ep, nil
}

func (s *Store) ListEndpoints(ctx context.Context, tenantID string) ([]Endpoint, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT %s FROM %s WHERE tenant_id = $1 ORDER BY id`,
		endpointColumns, s.db.TableName("webhook_endpoints"),
	))

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("webhooks: failed to list endpoints: %w", err)
	}
	defer rows.Close()

	var result []Endpoint
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("webhooks: failed to scan endpoint: %w", err)
		}
		result = append(result, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("webhooks: rows error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(s scanner) (Endpoint, error) {
	var ep Endpoint
	var eventTypes string
	if err := s.Scan(&ep.ID, &ep.TenantID, &ep.URL, &ep.Secret, &ep.IsActive, &eventTypes); err != nil {
		return Endpoint{}, err
	}
	if eventTypes != "" {
		ep.EventTypes = strings.Split(eventTypes, ",")
	}
	return ep, nil
}
