package webhooks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
	"github.com/fleetwire/fleetwire/internal/webhooks"
)

func TestLogEmitter_LevelByStatus(t *testing.T) {
	tests := []struct {
		status deliveries.Status
		level  string
	}{
		{deliveries.StatusSuccess, "INFO"},
		{deliveries.StatusFailed, "WARN"},
		{deliveries.StatusTerminallyFailed, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			ctx := logger.WithLogger(context.Background(), log)

			webhooks.LogEmitter{}.Emit(ctx, webhooks.DeliveryEvent{
				EventID: "evt-1", EndpointID: "ep-1", Status: tt.status, AttemptNumber: 2,
			})

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "evt-1", entry["event_id"])
			assert.EqualValues(t, 2, entry["attempt"])
		})
	}
}

func TestEmitters_FanOut(t *testing.T) {
	a, b := &recordingEmitter{}, &recordingEmitter{}
	evt := webhooks.DeliveryEvent{EventID: "evt-1", Status: deliveries.StatusSuccess}

	webhooks.Emitters{a, b}.Emit(context.Background(), evt)

	assert.Equal(t, []webhooks.DeliveryEvent{evt}, a.events)
	assert.Equal(t, []webhooks.DeliveryEvent{evt}, b.events)
}

func TestNewRedisEmitter_InvalidURL(t *testing.T) {
	_, err := webhooks.NewRedisEmitter("http://not-redis", "ch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhooks: invalid redis url")
}

func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container skipped in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedisEmitter_Publish(t *testing.T) {
	url := startRedis(t)

	emitter, err := webhooks.NewRedisEmitter(url, "fleetwire:test")
	require.NoError(t, err)
	t.Cleanup(func() { emitter.Close() })

	ctx := context.Background()
	sub := emitter.Subscribe(ctx)
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err, "subscription confirmation")

	emitter.Emit(ctx, webhooks.DeliveryEvent{
		EventID:       "evt-1",
		EndpointID:    "ep-1",
		TenantID:      "acme",
		Status:        deliveries.StatusTerminallyFailed,
		AttemptNumber: 5,
		ResponseCode:  503,
	})

	select {
	case msg := <-sub.Channel():
		var got webhooks.DeliveryEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "evt-1", got.EventID)
		assert.Equal(t, deliveries.StatusTerminallyFailed, got.Status)
		assert.Equal(t, 503, got.ResponseCode)
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery event received")
	}
}
