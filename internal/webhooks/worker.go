package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
	"github.com/fleetwire/fleetwire/internal/infra/metrics"
	"github.com/fleetwire/fleetwire/internal/signing"
)

// Tracker records delivery attempts.
type Tracker interface {
	RecordAttempt(ctx context.Context, a deliveries.Attempt) (deliveries.Attempt, error)
	CompleteAttempt(ctx context.Context, id string, status deliveries.Status, responseCode int, errMsg string) error
	LatestAttempt(ctx context.Context, eventID, endpointID string) (deliveries.Attempt, error)
	IsTerminal(ctx context.Context, eventID, endpointID string) (bool, error)
}

// Worker runs queued delivery attempts. A returned error means the job
// could not be processed (storage or queue unavailable) and should be
// redelivered; delivery failures are handled by scheduling the next attempt.
type Worker struct {
	store     EventStore
	tracker   Tracker
	transport Transport
	scheduler Scheduler
	emitter   Emitter
	policy    Policy
	now       func() time.Time
}

func NewWorker(
	store EventStore,
	tracker Tracker,
	transport Transport,
	scheduler Scheduler,
	emitter Emitter,
	policy Policy,
) *Worker {
	if emitter == nil {
		emitter = LogEmitter{}
	}
	return &Worker{
		store:     store,
		tracker:   tracker,
		transport: transport,
		scheduler: scheduler,
		emitter:   emitter,
		policy:    policy,
		now:       time.Now,
	}
}

// Handle is the queue job handler.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		logger.FromContext(ctx).Error("dropping malformed webhook job", "error", err)
		return nil
	}
	return w.Process(ctx, job)
}

func (w *Worker) Process(ctx context.Context, job Job) error {
	ctx, log := logger.With(ctx,
		"event_id", job.EventID,
		"endpoint_id", job.EndpointID,
		"attempt", job.Attempt,
	)

	event, err := w.store.GetEvent(ctx, job.EventID)
	if errors.Is(err, ErrNotFound) {
		log.Warn("event not found, dropping job")
		return nil
	}
	if err != nil {
		return err
	}
	if event.Cancelled() {
		log.Info("event cancelled, aborting delivery")
		return nil
	}

	terminal, err := w.tracker.IsTerminal(ctx, job.EventID, job.EndpointID)
	if err != nil {
		return err
	}
	if terminal {
		// the last attempt may still be pending after a crash
		return w.resolveConflict(ctx, job)
	}

	endpoint, err := w.store.GetEndpoint(ctx, job.EndpointID)
	if errors.Is(err, ErrNotFound) {
		log.Warn("endpoint not found, dropping job")
		return nil
	}
	if err != nil {
		return err
	}
	if !endpoint.IsActive {
		log.Info("endpoint inactive, dropping job")
		return nil
	}

	body, err := event.Envelope().Bytes()
	if err != nil {
		return w.recordTerminal(ctx, event, endpoint, job, err)
	}
	signature, err := signing.Sign([]byte(endpoint.Secret), body)
	if err != nil {
		return w.recordTerminal(ctx, event, endpoint, job, err)
	}

	attempt, err := w.tracker.RecordAttempt(ctx, deliveries.Attempt{
		EventID:       event.ID,
		EndpointID:    endpoint.ID,
		TenantID:      event.TenantID,
		AttemptNumber: job.Attempt,
		Signature:     signature,
	})
	if errors.Is(err, deliveries.ErrConflict) {
		return w.resolveConflict(ctx, job)
	}
	if err != nil {
		return err
	}

	start := w.now()
	code, sendErr := w.transport.Send(ctx, Delivery{
		Endpoint:  endpoint,
		EventID:   event.ID,
		EventType: event.Type,
		Attempt:   job.Attempt,
		Body:      body,
		Signature: signature,
	})
	duration := w.now().Sub(start)

	// Bookkeeping must finish even if the runner is shutting down.
	ctx = context.WithoutCancel(ctx)

	var signErr *signing.Error
	switch {
	case sendErr == nil:
		metrics.RecordWebhookDelivery(endpoint.ID, string(deliveries.StatusSuccess), duration)
		return w.complete(ctx, attempt, deliveries.StatusSuccess, code, "")

	case errors.As(sendErr, &signErr):
		log.Error("signing failed, not retrying", "error", sendErr)
		metrics.RecordExhausted(endpoint.ID)
		return w.complete(ctx, attempt, deliveries.StatusTerminallyFailed, code, sendErr.Error())

	case job.Attempt >= w.policy.MaxAttempts:
		metrics.RecordWebhookDelivery(endpoint.ID, string(deliveries.StatusTerminallyFailed), duration)
		metrics.RecordExhausted(endpoint.ID)
		log.Error("delivery exhausted, giving up", "error", sendErr, "max_attempts", w.policy.MaxAttempts)
		return w.complete(ctx, attempt, deliveries.StatusTerminallyFailed, code, sendErr.Error())

	default:
		metrics.RecordWebhookDelivery(endpoint.ID, string(deliveries.StatusFailed), duration)
		if err := w.complete(ctx, attempt, deliveries.StatusFailed, code, sendErr.Error()); err != nil {
			return err
		}
		return w.scheduleRetry(ctx, job)
	}
}

func (w *Worker) complete(
	ctx context.Context,
	attempt deliveries.Attempt,
	status deliveries.Status,
	code int,
	errMsg string,
) error {
	if err := w.tracker.CompleteAttempt(ctx, attempt.ID, status, code, errMsg); err != nil {
		return err
	}
	w.emitter.Emit(ctx, DeliveryEvent{
		EventID:       attempt.EventID,
		EndpointID:    attempt.EndpointID,
		TenantID:      attempt.TenantID,
		Status:        status,
		AttemptNumber: attempt.AttemptNumber,
		ResponseCode:  code,
		Error:         errMsg,
		At:            w.now(),
	})
	return nil
}

// recordTerminal stores a terminally failed attempt for a delivery that
// cannot be signed. Misconfiguration is not retried.
func (w *Worker) recordTerminal(
	ctx context.Context,
	event Event,
	endpoint Endpoint,
	job Job,
	cause error,
) error {
	log := logger.FromContext(ctx)
	log.Error("cannot sign delivery, marking terminally failed", "error", cause)

	now := w.now().UnixMilli()
	attempt, err := w.tracker.RecordAttempt(ctx, deliveries.Attempt{
		EventID:       event.ID,
		EndpointID:    endpoint.ID,
		TenantID:      event.TenantID,
		AttemptNumber: job.Attempt,
		Status:        deliveries.StatusTerminallyFailed,
		Error:         cause.Error(),
		CompletedAt:   &now,
	})
	if errors.Is(err, deliveries.ErrConflict) {
		return w.resolveConflict(ctx, job)
	}
	if err != nil {
		return err
	}

	metrics.RecordExhausted(endpoint.ID)
	w.emitter.Emit(ctx, DeliveryEvent{
		EventID:       attempt.EventID,
		EndpointID:    attempt.EndpointID,
		TenantID:      attempt.TenantID,
		Status:        attempt.Status,
		AttemptNumber: attempt.AttemptNumber,
		Error:         attempt.Error,
		At:            w.now(),
	})
	return nil
}

// ErrAttemptInFlight is returned for a job whose attempt is pending and
// still within its time budget. The queue redelivers the job later.
var ErrAttemptInFlight = errors.New("webhooks: attempt in flight")

const abandonedMessage = "abandoned: no outcome recorded"

// resolveConflict handles a job whose attempt number is already recorded,
// either by a concurrent worker or by an earlier run of the same job. It
// requeues a retry an earlier run failed to queue, and settles a pending
// attempt whose worker died before recording the outcome.
func (w *Worker) resolveConflict(ctx context.Context, job Job) error {
	log := logger.FromContext(ctx)

	latest, err := w.tracker.LatestAttempt(ctx, job.EventID, job.EndpointID)
	if err != nil {
		return err
	}

	switch {
	case latest.AttemptNumber != job.Attempt:
		// superseded by a later attempt

	case latest.Status == deliveries.StatusFailed && job.Attempt < w.policy.MaxAttempts:
		log.Info("attempt already failed, requeueing retry")
		return w.scheduleRetry(ctx, job)

	case latest.Status == deliveries.StatusPending:
		age := w.now().Sub(time.UnixMilli(latest.CreatedAt))
		if age < w.policy.abandonAfter() {
			return fmt.Errorf("%w: attempt %d started %s ago", ErrAttemptInFlight, job.Attempt, age)
		}
		return w.settleAbandoned(ctx, latest, job)
	}

	log.Info("attempt already recorded, dropping job", "latest_attempt", latest.AttemptNumber, "latest_status", latest.Status)
	return nil
}

func (w *Worker) settleAbandoned(ctx context.Context, attempt deliveries.Attempt, job Job) error {
	log := logger.FromContext(ctx)

	status := deliveries.StatusFailed
	if job.Attempt >= w.policy.MaxAttempts {
		status = deliveries.StatusTerminallyFailed
	}

	err := w.complete(ctx, attempt, status, 0, abandonedMessage)
	if errors.Is(err, deliveries.ErrConflict) {
		log.Info("abandoned attempt completed concurrently, dropping job")
		return nil
	}
	if err != nil {
		return err
	}

	log.Warn("settled abandoned attempt", "status", status)
	if status == deliveries.StatusTerminallyFailed {
		metrics.RecordExhausted(job.EndpointID)
		return nil
	}
	return w.scheduleRetry(ctx, job)
}

func (w *Worker) scheduleRetry(ctx context.Context, job Job) error {
	next := Job{EventID: job.EventID, EndpointID: job.EndpointID, Attempt: job.Attempt + 1}
	delay := w.policy.Backoff(job.Attempt)

	if err := w.scheduler.Schedule(ctx, next, delay); err != nil {
		return fmt.Errorf("webhooks: failed to schedule retry: %w", err)
	}
	metrics.RecordAttemptQueued(job.EndpointID, true)
	logger.FromContext(ctx).Debug("retry scheduled", "next_attempt", next.Attempt, "delay", delay)
	return nil
}
