package webhooks

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/fleetwire/fleetwire/internal/infra/config"
)

// abandonMargin is added to the request timeout before a pending attempt
// is considered abandoned by its worker.
const abandonMargin = 5 * time.Second

const defaultAbandonAfter = time.Minute

// Policy is the retry policy applied by the worker. A MaxDelay of 0 leaves
// the backoff uncapped.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	// AbandonAfter is the age at which a pending attempt without an outcome
	// is settled as failed. Defaults to one minute.
	AbandonAfter time.Duration
}

func PolicyFromConfig(cfg config.WebhooksConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Jitter:      cfg.Jitter,

		AbandonAfter: cfg.RequestTimeout + abandonMargin,
	}
}

// Backoff returns the delay before attempt n+1: BaseDelay*2^n capped at
// MaxDelay. Jitter adds up to BaseDelay without exceeding the cap.
func (p Policy) Backoff(n int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < n; i++ {
		if (p.MaxDelay > 0 && d >= p.MaxDelay) || d > math.MaxInt64/2 {
			break
		}
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter && p.BaseDelay > 0 {
		if j := rand.N(p.BaseDelay); d <= math.MaxInt64-j {
			d += j
		}
		if p.MaxDelay > 0 && d > p.MaxDelay {
			d = p.MaxDelay
		}
	}
	return d
}

func (p Policy) abandonAfter() time.Duration {
	if p.AbandonAfter > 0 {
		return p.AbandonAfter
	}
	return defaultAbandonAfter
}
