package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces successive recomputes at least interval apart.
type throttle struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval, now: time.Now}
}

// wait blocks until the next slot opens, then claims it. It returns the time
// spent waiting, or ctx's error if ctx ends first.
func (t *throttle) wait(ctx context.Context) (time.Duration, error) {
	if t == nil || t.interval <= 0 {
		return 0, nil
	}
	var waited time.Duration
	for {
		t.mu.Lock()
		now := t.now()
		delay := t.next.Sub(now)
		if delay <= 0 {
			t.next = now.Add(t.interval)
			t.mu.Unlock()
			return waited, nil
		}
		t.mu.Unlock()
		if delay > t.interval {
			delay = t.interval
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return waited, ctx.Err()
		case <-timer.C:
			waited += delay
		}
	}
}
