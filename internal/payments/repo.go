package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fleetwire/fleetwire/internal/infra/db"
)

// InboundEvent is the receipt of a verified provider webhook. Timestamps
// are unix milliseconds.
type InboundEvent struct {
	Provider        string
	ProviderEventID string
	TenantID        string
	EventType       string
	SignatureHeader string
	RawBody         []byte
	Verified        bool
	ReceivedAt      int64
	ProcessedAt     *int64
}

// Repo records inbound events for replay detection. The primary key
// (provider, provider_event_id) makes Claim an atomic insert-if-absent.
type Repo struct {
	db  *db.DB
	now func() time.Time
}

func NewRepo(database *db.DB) *Repo {
	return &Repo{db: database, now: time.Now}
}

func (r *Repo) table() string {
	return r.db.TableName("inbound_payment_events")
}

// Claim stores a verified event and reports whether it was seen for the
// first time.
func (r *Repo) Claim(ctx context.Context, e InboundEvent) (bool, error) {
	if e.ReceivedAt == 0 {
		e.ReceivedAt = r.now().UnixMilli()
	}

	query := r.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (provider, provider_event_id, tenant_id, event_type,
			signature_header, raw_body, verified, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider, provider_event_id) DO NOTHING
	`, r.table()))

	res, err := r.db.ExecContext(ctx, query,
		e.Provider, e.ProviderEventID, e.TenantID, e.EventType,
		e.SignatureHeader, string(e.RawBody), true, e.ReceivedAt,
	)
	if err != nil {
		return false, fmt.Errorf("payments: failed to claim event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("payments: failed to claim event: %w", err)
	}
	return n == 1, nil
}

// Complete marks a claimed event processed.
func (r *Repo) Complete(ctx context.Context, provider, providerEventID string) error {
	query := r.db.Rebind(fmt.Sprintf(`
		UPDATE %s SET processed_at = $1
		WHERE provider = $2 AND provider_event_id = $3 AND processed_at IS NULL
	`, r.table()))

	_, err := r.db.ExecContext(ctx, query, r.now().UnixMilli(), provider, providerEventID)
	if err != nil {
		return fmt.Errorf("payments: failed to complete event: %w", err)
	}
	return nil
}

// Release forgets an unprocessed claim so a redelivery is handled again.
func (r *Repo) Release(ctx context.Context, provider, providerEventID string) error {
	query := r.db.Rebind(fmt.Sprintf(`
		DELETE FROM %s
		WHERE provider = $1 AND provider_event_id = $2 AND processed_at IS NULL
	`, r.table()))

	if _, err := r.db.ExecContext(ctx, query, provider, providerEventID); err != nil {
		return fmt.Errorf("payments: failed to release event: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, provider, providerEventID string) (InboundEvent, error) {
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT provider, provider_event_id, tenant_id, event_type, signature_header,
			raw_body, verified, received_at, processed_at
		FROM %s
		WHERE provider = $1 AND provider_event_id = $2
	`, r.table()))

	var e InboundEvent
	var body string
	var processedAt sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, provider, providerEventID).Scan(
		&e.Provider, &e.ProviderEventID, &e.TenantID, &e.EventType, &e.SignatureHeader,
		&body, &e.Verified, &e.ReceivedAt, &processedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return InboundEvent{}, fmt.Errorf("%w: %s event %s", ErrNotFound, provider, providerEventID)
	}
	if err != nil {
		return InboundEvent{}, fmt.Errorf("payments: failed to get event: %w", err)
	}

	e.RawBody = []byte(body)
	if processedAt.Valid {
		e.ProcessedAt = &processedAt.Int64
	}
	return e, nil
}

// Prune deletes inbound records received before the cutoff, less
// ClockSkew: an event stamped up to ClockSkew ahead of its receipt stays
// claimed until the replay window has passed it.
func (r *Repo) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE received_at < $1`, r.table()))

	res, err := r.db.ExecContext(ctx, query, before.Add(-ClockSkew).UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("payments: failed to prune inbound events: %w", err)
	}
	return res.RowsAffected()
}
