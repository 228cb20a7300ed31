package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamolegga/goqite"
	"github.com/iamolegga/goqite/jobs"
)

// Scheduler queues a delivery attempt to run after delay.
type Scheduler interface {
	Schedule(ctx context.Context, job Job, delay time.Duration) error
}

// QueueScheduler stores attempts as delayed goqite jobs, so pending retries
// survive restarts.
type QueueScheduler struct {
	queue   *goqite.Queue
	jobName string
}

func NewQueueScheduler(queue *goqite.Queue, jobName string) *QueueScheduler {
	return &QueueScheduler{queue: queue, jobName: jobName}
}

func (s *QueueScheduler) Schedule(ctx context.Context, job Job, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("webhooks: failed to marshal job: %w", err)
	}

	if _, err := jobs.Create(ctx, s.queue, s.jobName, goqite.Message{Body: body, Delay: delay}); err != nil {
		return fmt.Errorf("webhooks: failed to enqueue attempt %d: %w", job.Attempt, err)
	}
	return nil
}
