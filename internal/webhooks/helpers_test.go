package webhooks_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/infra/db"
	"github.com/fleetwire/fleetwire/internal/webhooks"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate("sqlite", dsn, ""), "sqlite migration failed")

	database, err := db.New("sqlite", dsn, "")
	require.NoError(t, err, "sqlite connection failed")
	t.Cleanup(func() { database.Close() })

	return database
}

type scheduled struct {
	job   webhooks.Job
	delay time.Duration
}

// fakeScheduler keeps jobs in memory so tests can run them synchronously.
type fakeScheduler struct {
	mu      sync.Mutex
	pending []scheduled
	history []scheduled
	failFor map[string]error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{failFor: make(map[string]error)}
}

func (f *fakeScheduler) Schedule(_ context.Context, job webhooks.Job, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failFor[job.EndpointID]; ok {
		return err
	}
	s := scheduled{job: job, delay: delay}
	f.pending = append(f.pending, s)
	f.history = append(f.history, s)
	return nil
}

func (f *fakeScheduler) pop() (scheduled, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return scheduled{}, false
	}
	s := f.pending[0]
	f.pending = f.pending[1:]
	return s, true
}

func (f *fakeScheduler) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// drain runs queued jobs, including the retries they schedule, until the
// queue is empty.
func (f *fakeScheduler) drain(t *testing.T, w *webhooks.Worker) {
	t.Helper()
	for range 100 {
		s, ok := f.pop()
		if !ok {
			return
		}
		require.NoError(t, w.Process(context.Background(), s.job))
	}
	t.Fatal("queue did not drain")
}

var errQueueDown = errors.New("queue down")
