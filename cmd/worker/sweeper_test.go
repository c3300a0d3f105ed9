package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/reconcile"
	"stockview/internal/infrastructure/messaging"
	"stockview/pkg/logger"
)

type failingReconciler struct{}

func (failingReconciler) Reconcile(context.Context) (*reconcile.Result, error) {
	return nil, errors.New("snapshot unavailable")
}

type countingStats struct{ calls atomic.Int32 }

func (c *countingStats) LogStats(context.Context) { c.calls.Add(1) }

func TestSweeper_CountsIssuesByKind(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 1)

	note := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, note.SetLines([]delivery_note.LineInput{
		{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(4)},
	}))
	require.NoError(t, env.Services.DeliveryNotes.Create(ctx, note))
	_, err := env.Services.DeliveryNotes.Confirm(ctx, note.ID)
	require.NoError(t, err)

	s := NewSweeper(env.Services.Inventory, nil, logger.NewNop())
	counts, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[reconcile.IssueNegativeAvailable])
}

func TestSweeper_HandleEventPropagatesFailure(t *testing.T) {
	s := NewSweeper(failingReconciler{}, nil, logger.NewNop())
	event := messaging.NewEvent("test", "", domain.ChangeScope{Kind: domain.ChangeItem, Action: "created"})

	err := s.HandleEvent(context.Background(), event)
	assert.EqualError(t, err, "snapshot unavailable")
}

func TestSweeper_RunPeriodic(t *testing.T) {
	env := apptest.New(t, false)
	env.Product(t, "Speaker", 1)
	stats := &countingStats{}
	s := NewSweeper(env.Services.Inventory, stats, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunPeriodic(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return stats.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPeriodic did not stop")
	}
}

func TestSweeper_ZeroIntervalWaitsForContext(t *testing.T) {
	stats := &countingStats{}
	s := NewSweeper(failingReconciler{}, stats, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.RunPeriodic(ctx, 0)

	assert.Zero(t, stats.calls.Load())
}
