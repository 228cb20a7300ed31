package webhooks_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/webhooks"
)

func newTestService(t *testing.T) (*webhooks.Service, *webhooks.Store, *fakeScheduler) {
	t.Helper()

	store := webhooks.NewStore(newTestDB(t))
	router, err := webhooks.NewRouter()
	require.NoError(t, err)
	scheduler := newFakeScheduler()

	return webhooks.NewService(store, router, scheduler), store, scheduler
}

func queuedEndpoints(f *fakeScheduler) []string {
	var ids []string
	for _, s := range f.history {
		ids = append(ids, s.job.EndpointID)
	}
	return ids
}

func TestService_PublishPersistsCanonicalPayload(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	event, err := svc.Publish(ctx, "acme", "trip.completed", json.RawMessage(`{ "b": 2, "a": 1 }`))
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, `{"a":1,"b":2}`, string(event.Payload))

	stored, err := store.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Payload, stored.Payload)
	assert.True(t, event.CreatedAt.Equal(stored.CreatedAt))
}

func TestService_PublishRejectsInvalidPayload(t *testing.T) {
	svc, _, scheduler := newTestService(t)

	_, err := svc.Publish(context.Background(), "acme", "trip.completed", json.RawMessage(`{"a":`))
	assert.Error(t, err)
	assert.Zero(t, scheduler.len())
}

func TestService_DispatchFiltersEndpoints(t *testing.T) {
	svc, store, scheduler := newTestService(t)
	ctx := context.Background()

	for _, ep := range []webhooks.Endpoint{
		{ID: "ep-all", TenantID: "acme", URL: "https://a.test", Secret: "s", IsActive: true},
		{ID: "ep-trips", TenantID: "acme", URL: "https://b.test", Secret: "s", IsActive: true, EventTypes: []string{"trip.*"}},
		{ID: "ep-payments", TenantID: "acme", URL: "https://c.test", Secret: "s", IsActive: true, EventTypes: []string{"payment.*"}},
		{ID: "ep-off", TenantID: "acme", URL: "https://d.test", Secret: "s", IsActive: false},
		{ID: "ep-other", TenantID: "globex", URL: "https://e.test", Secret: "s", IsActive: true},
	} {
		require.NoError(t, store.UpsertEndpoint(ctx, ep))
	}

	event, err := svc.Publish(ctx, "acme", "trip.completed", json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ep-all", "ep-trips"}, queuedEndpoints(scheduler))
	for _, s := range scheduler.history {
		assert.Equal(t, event.ID, s.job.EventID)
		assert.Equal(t, 1, s.job.Attempt)
		assert.Zero(t, s.delay)
	}
}

func TestService_DispatchIgnoresForeignEndpoints(t *testing.T) {
	svc, _, scheduler := newTestService(t)

	event := webhooks.Event{ID: "evt-1", TenantID: "acme", Type: "trip.completed"}
	err := svc.Dispatch(context.Background(), event, []webhooks.Endpoint{
		{ID: "ep-other", TenantID: "globex", IsActive: true},
	})
	require.NoError(t, err)
	assert.Zero(t, scheduler.len())
}

func TestService_DispatchContinuesPastQueueFailure(t *testing.T) {
	svc, _, scheduler := newTestService(t)
	scheduler.failFor["ep-a"] = errQueueDown

	event := webhooks.Event{ID: "evt-1", TenantID: "acme", Type: "trip.completed"}
	err := svc.Dispatch(context.Background(), event, []webhooks.Endpoint{
		{ID: "ep-a", TenantID: "acme", IsActive: true},
		{ID: "ep-b", TenantID: "acme", IsActive: true},
	})

	require.ErrorIs(t, err, errQueueDown)
	assert.Contains(t, err.Error(), "ep-a")
	assert.Equal(t, []string{"ep-b"}, queuedEndpoints(scheduler))
}

func TestService_CancelAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	event, err := svc.Publish(ctx, "acme", "trip.completed", json.RawMessage(`[1,2]`))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled())

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, got.Cancelled())

	_, err = svc.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, webhooks.ErrNotFound)
}

func TestService_ForwardReportsQueueFailure(t *testing.T) {
	svc, store, scheduler := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertEndpoint(ctx, webhooks.Endpoint{
		ID: "ep-a", TenantID: "acme", URL: "https://a.test", Secret: "s", IsActive: true,
	}))
	scheduler.failFor["ep-a"] = errQueueDown

	err := svc.Forward(ctx, "evt-pay-1", "acme", "payment.completed", json.RawMessage(`{"amount":1}`))
	require.ErrorIs(t, err, errQueueDown)
	assert.Zero(t, scheduler.len())

	// the provider retries once the queue is back
	delete(scheduler.failFor, "ep-a")
	err = svc.Forward(ctx, "evt-pay-1", "acme", "payment.completed", json.RawMessage(`{"amount":1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-a"}, queuedEndpoints(scheduler))

	stored, err := store.GetEvent(ctx, "evt-pay-1")
	require.NoError(t, err)
	assert.Equal(t, "payment.completed", stored.Type)
	assert.JSONEq(t, `{"amount":1}`, string(stored.Payload))
}

func TestService_PublishWithIDReusesStoredEvent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.PublishWithID(ctx, "evt-1", "acme", "trip.completed", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	again, err := svc.PublishWithID(ctx, "evt-1", "acme", "trip.completed", json.RawMessage(`{"a":2}`))
	require.NoError(t, err)
	assert.Equal(t, first.Payload, again.Payload)
	assert.True(t, first.CreatedAt.Equal(again.CreatedAt))

	_, err = svc.PublishWithID(ctx, "evt-1", "globex", "trip.completed", json.RawMessage(`{}`))
	assert.Error(t, err)
}
