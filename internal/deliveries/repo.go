package deliveries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetwire/fleetwire/internal/infra/db"
)

const attemptColumns = `id, event_id, endpoint_id, tenant_id, attempt_number, status,
	response_code, signature, error, created_at, completed_at`

// Repo is the delivery tracker. The unique (event_id, endpoint_id,
// attempt_number) constraint serializes concurrent attempts for a pair.
type Repo struct {
	db          *db.DB
	maxAttempts int
	now         func() time.Time
}

func NewRepo(database *db.DB, maxAttempts int) *Repo {
	return &Repo{db: database, maxAttempts: maxAttempts, now: time.Now}
}

func (r *Repo) table() string {
	return r.db.TableName("delivery_attempts")
}

// RecordAttempt inserts a if its attempt number is unused for the pair.
// ID, CreatedAt and Status default to a new uuid, now and pending.
func (r *Repo) RecordAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	if a.AttemptNumber < 1 {
		return Attempt{}, fmt.Errorf("deliveries: invalid attempt number %d", a.AttemptNumber)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = r.now().UnixMilli()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}

	query := r.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (event_id, endpoint_id, attempt_number) DO NOTHING
	`, r.table(), attemptColumns))

	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.EventID, a.EndpointID, a.TenantID, a.AttemptNumber, string(a.Status),
		a.ResponseCode, a.Signature, a.Error, a.CreatedAt, a.CompletedAt,
	)
	if err != nil {
		return Attempt{}, fmt.Errorf("deliveries: failed to record attempt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Attempt{}, fmt.Errorf("deliveries: failed to record attempt: %w", err)
	}
	if n == 0 {
		return Attempt{}, fmt.Errorf(
			"%w: attempt %d already recorded for event %s endpoint %s",
			ErrConflict, a.AttemptNumber, a.EventID, a.EndpointID,
		)
	}

	return a, nil
}

// CompleteAttempt moves a pending attempt to its outcome. Completed attempts
// are never overwritten.
func (r *Repo) CompleteAttempt(
	ctx context.Context,
	id string,
	status Status,
	responseCode int,
	errMsg string,
) error {
	if !status.Completed() {
		return fmt.Errorf("deliveries: invalid completion status %q", status)
	}

	query := r.db.Rebind(fmt.Sprintf(`
		UPDATE %s
		SET status = $1, response_code = $2, error = $3, completed_at = $4
		WHERE id = $5 AND status = $6
	`, r.table()))

	res, err := r.db.ExecContext(ctx, query,
		string(status), responseCode, errMsg, r.now().UnixMilli(), id, string(StatusPending),
	)
	if err != nil {
		return fmt.Errorf("deliveries: failed to complete attempt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deliveries: failed to complete attempt: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: attempt %s is not pending", ErrConflict, id)
}

func (r *Repo) Get(ctx context.Context, id string) (Attempt, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, attemptColumns, r.table()))

	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, fmt.Errorf("%w: attempt %s", ErrNotFound, id)
	}
	if err != nil {
		return Attempt{}, fmt.Errorf("deliveries: failed to get attempt: %w", err)
	}
	return a, nil
}

// LatestAttempt returns the attempt with the highest number for the pair.
func (r *Repo) LatestAttempt(ctx context.Context, eventID, endpointID string) (Attempt, error) {
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE event_id = $1 AND endpoint_id = $2
		ORDER BY attempt_number DESC
		LIMIT 1
	`, attemptColumns, r.table()))

	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, eventID, endpointID))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, fmt.Errorf(
			"%w: no attempts for event %s endpoint %s", ErrNotFound, eventID, endpointID,
		)
	}
	if err != nil {
		return Attempt{}, fmt.Errorf("deliveries: failed to get latest attempt: %w", err)
	}
	return a, nil
}

func (r *Repo) LatestStatus(ctx context.Context, eventID, endpointID string) (Status, error) {
	a, err := r.LatestAttempt(ctx, eventID, endpointID)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// IsTerminal reports whether the pair has succeeded, was marked terminally
// failed, or has used up its attempts.
func (r *Repo) IsTerminal(ctx context.Context, eventID, endpointID string) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ($3, $4) THEN 1 ELSE 0 END), 0)
		FROM %s
		WHERE event_id = $1 AND endpoint_id = $2
	`, r.table()))

	var total, terminal int
	err := r.db.QueryRowContext(ctx, query,
		eventID, endpointID, string(StatusSuccess), string(StatusTerminallyFailed),
	).Scan(&total, &terminal)
	if err != nil {
		return false, fmt.Errorf("deliveries: failed to check terminal state: %w", err)
	}

	return terminal > 0 || total >= r.maxAttempts, nil
}

// History returns every attempt of an event ordered by endpoint and number.
func (r *Repo) History(ctx context.Context, eventID string) ([]Attempt, error) {
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE event_id = $1
		ORDER BY endpoint_id, attempt_number
	`, attemptColumns, r.table()))

	return r.list(ctx, query, eventID)
}

// ListTerminallyFailed returns the newest exhausted pairs, optionally for a
// single tenant.
func (r *Repo) ListTerminallyFailed(ctx context.Context, tenantID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}

	if tenantID == "" {
		query := r.db.Rebind(fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2
		`, attemptColumns, r.table()))
		return r.list(ctx, query, string(StatusTerminallyFailed), limit)
	}

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, attemptColumns, r.table()))
	return r.list(ctx, query, tenantID, string(StatusTerminallyFailed), limit)
}

// Prune deletes attempts created before the cutoff.
func (r *Repo) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, r.table()))

	res, err := r.db.ExecContext(ctx, query, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("deliveries: failed to prune attempts: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Attempt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deliveries: failed to query attempts: %w", err)
	}
	defer rows.Close()

	var result []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("deliveries: failed to scan row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deliveries: rows error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (Attempt, error) {
	var a Attempt
	var status string
	var completedAt sql.NullInt64
	err := s.Scan(
		&a.ID, &a.EventID, &a.EndpointID, &a.TenantID, &a.AttemptNumber, &status,
		&a.ResponseCode, &a.Signature, &a.Error, &a.CreatedAt, &completedAt,
	)
	if err != nil {
		return Attempt{}, err
	}
	a.Status = Status(status)
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Int64
	}
	return a, nil
}
