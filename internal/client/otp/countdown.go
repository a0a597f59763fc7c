package otp

import (
	"context"
	"sync"
	"time"
)

// Countdown owns the recurring timer behind a cooldown. Start schedules a
// tick callback every interval; the timer stops by itself once the callback
// reports zero, on Cancel, or when the context ends. At most one timer runs
// per Countdown.
type Countdown struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start replaces any running timer with a new one calling tick.
func (c *Countdown) Start(ctx context.Context, tick func() int) {
	c.Cancel()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if tick() <= 0 {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Cancel stops the running timer, if any, and waits for it to exit.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a timer is still scheduled.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
