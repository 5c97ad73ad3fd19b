package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/service"
)

func TestRecalcSchedulerCoalescesBursts(t *testing.T) {
	var calls int32
	fired := make(chan uuid.UUID, 8)

	scheduler := service.NewRecalcScheduler(30*time.Millisecond, func(ctx context.Context, offerID uuid.UUID) error {
		atomic.AddInt32(&calls, 1)
		fired <- offerID
		return nil
	}, zap.NewNop())
	defer scheduler.Stop()

	offerID := uuid.New()
	for i := 0; i < 5; i++ {
		scheduler.Schedule(offerID)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case got := <-fired:
		assert.Equal(t, offerID, got)
	case <-time.After(time.Second):
		t.Fatal("recompute never fired")
	}

	// The burst collapses to a single recompute.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRecalcSchedulerTracksOffersIndependently(t *testing.T) {
	fired := make(chan uuid.UUID, 8)

	scheduler := service.NewRecalcScheduler(10*time.Millisecond, func(ctx context.Context, offerID uuid.UUID) error {
		fired <- offerID
		return nil
	}, zap.NewNop())
	defer scheduler.Stop()

	first, second := uuid.New(), uuid.New()
	scheduler.Schedule(first)
	scheduler.Schedule(second)

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-fired:
			seen[id] = true
		case <-time.After(time.Second):
			t.Fatal("recompute never fired")
		}
	}
	assert.True(t, seen[first])
	assert.True(t, seen[second])
}

func TestRecalcSchedulerStopCancelsPending(t *testing.T) {
	var calls int32

	scheduler := service.NewRecalcScheduler(20*time.Millisecond, func(ctx context.Context, offerID uuid.UUID) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, zap.NewNop())

	scheduler.Schedule(uuid.New())
	scheduler.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// Scheduling after Stop is a no-op.
	scheduler.Schedule(uuid.New())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
