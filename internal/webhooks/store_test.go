package webhooks_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/infra/config"
	"github.com/fleetwire/fleetwire/internal/webhooks"
)

func TestStore_EventRoundTrip(t *testing.T) {
	store := webhooks.NewStore(newTestDB(t))
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 123e6, time.UTC)
	require.NoError(t, store.CreateEvent(ctx, webhooks.Event{
		ID:        "evt-1",
		TenantID:  "acme",
		Type:      "trip.completed",
		Payload:   json.RawMessage(`{"trip_id":"t1"}`),
		CreatedAt: created,
	}))

	got, err := store.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.TenantID)
	assert.JSONEq(t, `{"trip_id":"t1"}`, string(got.Payload))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.False(t, got.Cancelled())
}

func TestStore_GetEventNotFound(t *testing.T) {
	store := webhooks.NewStore(newTestDB(t))
	_, err := store.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, webhooks.ErrNotFound)
}

func TestStore_CancelKeepsFirstMark(t *testing.T) {
	store := webhooks.NewStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.CreateEvent(ctx, webhooks.Event{
		ID: "evt-1", TenantID: "acme", Type: "t", Payload: json.RawMessage(`{}`), CreatedAt: time.Now(),
	}))

	first := time.UnixMilli(1_700_000_000_000)
	e, err := store.CancelEvent(ctx, "evt-1", first)
	require.NoError(t, err)
	require.True(t, e.Cancelled())

	e, err = store.CancelEvent(ctx, "evt-1", first.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.UnixMilli(), e.CancelledAt.UnixMilli())

	_, err = store.CancelEvent(ctx, "missing", first)
	assert.ErrorIs(t, err, webhooks.ErrNotFound)
}

func TestStore_Prune(t *testing.T) {
	store := webhooks.NewStore(newTestDB(t))
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.CreateEvent(ctx, webhooks.Event{
		ID: "old", TenantID: "acme", Type: "t", Payload: json.RawMessage(`1`), CreatedAt: now.Add(-72 * time.Hour),
	}))
	require.NoError(t, store.CreateEvent(ctx, webhooks.Event{
		ID: "new", TenantID: "acme", Type: "t", Payload: json.RawMessage(`2`), CreatedAt: now,
	}))

	n, err := store.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.GetEvent(ctx, "old")
	assert.ErrorIs(t, err, webhooks.ErrNotFound)
	_, err = store.GetEvent(ctx, "new")
	assert.NoError(t, err)
}

func TestStore_SeedEndpoints(t *testing.T) {
	store := webhooks.NewStore(newTestDB(t))
	ctx := context.Background()
	inactive := false

	tenants := []config.TenantConfig{
		{ID: "acme", Endpoints: []config.EndpointConfig{
			{ID: "ep-1", URL: "https://a.test/hook", Secret: "s1", EventTypes: []string{"trip.*", "payment.*"}},
			{ID: "ep-2", URL: "https://b.test/hook", Secret: "s2", Active: &inactive},
		}},
		{ID: "globex", Endpoints: []config.EndpointConfig{
			{ID: "ep-3", URL: "https://c.test/hook", Secret: "s3"},
		}},
	}

	n, err := store.SeedEndpoints(ctx, tenants)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	eps, err := store.ListEndpoints(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, []string{"trip.*", "payment.*"}, eps[0].EventTypes)
	assert.True(t, eps[0].IsActive)
	assert.False(t, eps[1].IsActive)
	assert.Nil(t, eps[1].EventTypes)

	// seeding again updates in place
	tenants[0].Endpoints[0].URL = "https://a.test/v2"
	_, err = store.SeedEndpoints(ctx, tenants)
	require.NoError(t, err)

	ep, err := store.GetEndpoint(ctx, "ep-1")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test/v2", ep.URL)

	_, err = store.GetEndpoint(ctx, "ep-404")
	assert.ErrorIs(t, err, webhooks.ErrNotFound)
}
