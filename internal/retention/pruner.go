// Package retention deletes webhook history older than the retention period.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetwire/fleetwire/internal/infra/metrics"
)

// Target deletes its rows created before the cutoff.
type Target interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Pruner periodically prunes every registered table.
type Pruner struct {
	period  time.Duration
	targets map[string]Target
	now     func() time.Time
}

func NewPruner(period time.Duration, targets map[string]Target) *Pruner {
	return &Pruner{period: period, targets: targets, now: time.Now}
}

// Start prunes once and then every interval until ctx is done.
// If interval is 0, it prunes once and returns.
func (p *Pruner) Start(ctx context.Context, interval time.Duration) {
	p.Run(ctx)

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Run(ctx)
		}
	}
}

// Run prunes every target once and returns the number of deleted rows.
// A failing target is logged and does not stop the others.
func (p *Pruner) Run(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.period)

	var total int64
	for name, target := range p.targets {
		n, err := target.Prune(ctx, cutoff)
		if err != nil {
			slog.Error("failed to prune", "table", name, "error", err)
			continue
		}
		metrics.RecordPruned(name, n)
		total += n
	}

	if total > 0 {
		slog.Info("pruned expired webhook history", "rows", total, "before", cutoff)
	}
	return total
}
