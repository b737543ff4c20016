package timer

import (
	"context"
	"time"
)

// DefaultTickInterval is the display refresh period.
const DefaultTickInterval = 500 * time.Millisecond

// Handle controls a scheduled ticker started by Schedule.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Schedule calls fn every interval until ctx is done or the handle is
// cancelled. fn runs on the ticker goroutine and may call Cancel.
func Schedule(ctx context.Context, interval time.Duration, fn func(now time.Time)) *Handle {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				// A tick may race with cancellation; drop it.
				if ctx.Err() != nil {
					return
				}
				fn(now)
			}
		}
	}()
	return h
}

// Cancel stops future ticks. It is safe to call more than once.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the ticker goroutine has exited.
func (h *Handle) Wait() {
	<-h.done
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}
