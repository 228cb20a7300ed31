package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetwire/fleetwire/internal/infra/logger"
	"github.com/fleetwire/fleetwire/internal/infra/metrics"
	"github.com/fleetwire/fleetwire/internal/signing"
)

// EventStore persists events and looks up endpoints.
type EventStore interface {
	CreateEvent(ctx context.Context, e Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	CancelEvent(ctx context.Context, id string, at time.Time) (Event, error)
	GetEndpoint(ctx context.Context, id string) (Endpoint, error)
	ListEndpoints(ctx context.Context, tenantID string) ([]Endpoint, error)
}

// Service accepts events and queues the first delivery attempt for every
// subscribed endpoint. It never waits for deliveries.
type Service struct {
	store     EventStore
	router    *Router
	scheduler Scheduler
	now       func() time.Time
}

func NewService(store EventStore, router *Router, scheduler Scheduler) *Service {
	return &Service{
		store:     store,
		router:    router,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Publish persists a new event for the tenant and dispatches it to the
// tenant's endpoints. The payload must be valid JSON.
func (s *Service) Publish(
	ctx context.Context,
	tenantID, eventType string,
	payload json.RawMessage,
) (Event, error) {
	return s.PublishWithID(ctx, uuid.NewString(), tenantID, eventType, payload)
}

// PublishWithID is Publish with a caller chosen event id. Publishing an id
// that already exists dispatches the stored event again; endpoints that
// already have attempt 1 recorded drop the duplicate job.
func (s *Service) PublishWithID(
	ctx context.Context,
	id, tenantID, eventType string,
	payload json.RawMessage,
) (Event, error) {
	data, err := signing.Canonicalize(payload)
	if err != nil {
		return Event{}, fmt.Errorf("webhooks: invalid payload: %w", err)
	}

	event, err := s.store.GetEvent(ctx, id)
	switch {
	case err == nil:
		if event.TenantID != tenantID {
			return Event{}, fmt.Errorf("webhooks: event %s belongs to another tenant", id)
		}
		logger.FromContext(ctx).Info("event already stored, dispatching again", "event_id", id)

	case errors.Is(err, ErrNotFound):
		event = Event{
			ID:        id,
			TenantID:  tenantID,
			Type:      eventType,
			Payload:   data,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		}
		if err := s.store.CreateEvent(ctx, event); err != nil {
			return Event{}, err
		}
		metrics.RecordEventPublished(tenantID, eventType)

	default:
		return Event{}, err
	}

	endpoints, err := s.store.ListEndpoints(ctx, tenantID)
	if err != nil {
		return event, err
	}

	return event, s.Dispatch(ctx, event, endpoints)
}

// Forward publishes an event under a caller chosen id and reports any
// failure, including endpoints that could not be queued, so the caller
// can retry with the same id.
func (s *Service) Forward(
	ctx context.Context,
	id, tenantID, eventType string,
	payload json.RawMessage,
) error {
	_, err := s.PublishWithID(ctx, id, tenantID, eventType, payload)
	return err
}

// Dispatch queues attempt 1 for each active endpoint subscribed to the
// event's type. Endpoints are independent: a failure for one is reported
// but does not stop the others.
func (s *Service) Dispatch(ctx context.Context, event Event, endpoints []Endpoint) error {
	log := logger.FromContext(ctx)

	var errs []error
	var queued int
	for _, ep := range endpoints {
		if !ep.IsActive || ep.TenantID != event.TenantID {
			continue
		}

		ok, err := s.router.Matches(ep, event.Type)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		job := Job{EventID: event.ID, EndpointID: ep.ID, Attempt: 1}
		if err := s.scheduler.Schedule(ctx, job, 0); err != nil {
			log.Error("failed to queue delivery", "error", err, "event_id", event.ID, "endpoint_id", ep.ID)
			errs = append(errs, fmt.Errorf("endpoint %s: %w", ep.ID, err))
			continue
		}
		metrics.RecordAttemptQueued(ep.ID, false)
		queued++
	}

	log.Debug("event dispatched", "event_id", event.ID, "type", event.Type, "endpoints", queued)

	return errors.Join(errs...)
}

// Cancel marks the event cancelled; queued attempts abort before sending.
func (s *Service) Cancel(ctx context.Context, eventID string) (Event, error) {
	event, err := s.store.CancelEvent(ctx, eventID, s.now())
	if err != nil {
		return Event{}, err
	}
	logger.FromContext(ctx).Info("event cancelled", "event_id", eventID)
	return event, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (Event, error) {
	return s.store.GetEvent(ctx, eventID)
}
