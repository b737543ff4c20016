package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_TicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int32
	h := Schedule(context.Background(), 5*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	h.Cancel()
	h.Wait()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after cancel")
}

func TestSchedule_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Schedule(ctx, time.Millisecond, func(time.Time) {})
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop with its context")
	}
}

func TestSchedule_CancelFromCallback(t *testing.T) {
	var h *Handle
	ready := make(chan struct{})
	var calls atomic.Int32
	h = Schedule(context.Background(), time.Millisecond, func(time.Time) {
		<-ready
		calls.Add(1)
		h.Cancel()
	})
	close(ready)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel from callback")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestHandle_CancelTwice(t *testing.T) {
	h := Schedule(context.Background(), time.Millisecond, func(time.Time) {})
	h.Cancel()
	h.Cancel()
	h.Wait()
}

func TestSchedule_DefaultInterval(t *testing.T) {
	h := Schedule(context.Background(), 0, func(time.Time) {})
	defer h.Cancel()
	select {
	case <-h.Done():
		t.Fatal("ticker exited immediately")
	default:
	}
}
