// Package schedule runs a function on a fixed period until cancelled.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Handle controls one running task. Cancel is safe to call more than once
// and from inside the task itself.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
}

// Done is closed once the task goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Every waits period, runs fn, and repeats. The next wait starts only after fn
// returns, so runs never overlap.
func Every(parent context.Context, period time.Duration, fn func(ctx context.Context)) *Handle {
	return start(parent, period, false, fn)
}

// Now is Every with a first run before the first wait.
func Now(parent context.Context, period time.Duration, fn func(ctx context.Context)) *Handle {
	return start(parent, period, true, fn)
}

// Once runs fn a single time in the background; Cancel only cancels its ctx.
func Once(parent context.Context, fn func(ctx context.Context)) *Handle {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer cancel()
		fn(ctx)
	}()
	return h
}

func start(parent context.Context, period time.Duration, immediate bool, fn func(ctx context.Context)) *Handle {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		if immediate {
			fn(ctx)
		}
		timer := time.NewTimer(period)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
			timer.Reset(period)
		}
	}()
	return h
}
