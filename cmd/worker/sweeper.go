package main

import (
	"context"
	"time"

	"stockview/internal/domain/reconcile"
	"stockview/internal/infrastructure/messaging"
	"stockview/pkg/logger"
)

// Reconciler reruns a full reconciliation.
type Reconciler interface {
	Reconcile(ctx context.Context) (*reconcile.Result, error)
}

// StatsLogger is implemented by storage that can report pool usage.
type StatsLogger interface {
	LogStats(ctx context.Context)
}

// Sweeper reconciles on demand and reports data quality issues.
type Sweeper struct {
	inventory Reconciler
	stats     StatsLogger
	log       *logger.Logger
}

// NewSweeper creates a sweeper. stats may be nil.
func NewSweeper(inventory Reconciler, stats StatsLogger, log *logger.Logger) *Sweeper {
	return &Sweeper{
		inventory: inventory,
		stats:     stats,
		log:       log.WithComponent("sweeper"),
	}
}

// HandleEvent reconciles after a committed change.
func (s *Sweeper) HandleEvent(ctx context.Context, event *messaging.Event) error {
	s.log.WithContext(ctx).Debugw("change event received",
		"event_id", event.ID,
		"type", event.Type,
		"items", len(event.Scope.ItemIDs),
	)
	_, err := s.Sweep(ctx)
	return err
}

// Sweep runs one reconciliation and logs its issues grouped by kind.
func (s *Sweeper) Sweep(ctx context.Context) (map[reconcile.IssueKind]int, error) {
	start := time.Now()
	res, err := s.inventory.Reconcile(ctx)
	if err != nil {
		s.log.WithContext(ctx).Errorw("reconciliation failed", "error", err)
		return nil, err
	}

	l := s.log.WithContext(ctx)
	counts := make(map[reconcile.IssueKind]int)
	for _, is := range res.Issues {
		counts[is.Kind]++
		l.Debugw("data quality issue",
			"kind", is.Kind,
			"item_id", is.ItemID,
			"record_id", is.RecordID,
			"message", is.Message,
		)
	}

	fields := []any{
		"items", len(res.Items),
		"issues", len(res.Issues),
		"by_kind", counts,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if len(res.Issues) > 0 {
		l.Warnw("reconciliation completed with issues", fields...)
	} else {
		l.Infow("reconciliation completed", fields...)
	}
	return counts, nil
}

// RunPeriodic sweeps every interval until ctx is done. A zero interval only
// waits for ctx.
func (s *Sweeper) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
			if s.stats != nil {
				s.stats.LogStats(ctx)
			}
		}
	}
}
