package provider

import (
	"context"
	"sync"
	"time"

	"github.com/pathforge-labs/pathforge/internal/utils"
)

// Throttle spaces upstream calls at least interval apart. The first call
// never waits. A nil Throttle does nothing.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now  func() time.Time
	wait func(context.Context, time.Duration) error
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now, wait: utils.WaitFor}
}

// Wait blocks until the next call is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if d := t.interval - t.now().Sub(t.last); d > 0 {
			if err := t.wait(ctx, d); err != nil {
				return err
			}
		}
	}
	t.last = t.now()
	return nil
}
