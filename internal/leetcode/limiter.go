package leetcode

import (
	"context"
	"sync"
	"time"
)

// windowLimiter admits at most limit calls in any rolling window.
//
// Each caller reserves the earliest free slot under the lock, then sleeps
// outside of it until that slot. Reservations are handed out in lock
// order, so callers queued in the same window leave in the order they
// arrived.
type windowLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	admitted []time.Time // ascending; may contain future reservations
	now      func() time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &windowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Wait blocks until the caller may issue one request. A slot reserved by
// a caller whose context is cancelled stays consumed.
func (l *windowLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	cutoff := now.Add(-l.window)
	expired := 0
	for expired < len(l.admitted) && !l.admitted[expired].After(cutoff) {
		expired++
	}
	l.admitted = l.admitted[expired:]

	at := now
	if n := len(l.admitted); n >= l.limit {
		at = l.admitted[n-l.limit].Add(l.window)
	}
	l.admitted = append(l.admitted, at)
	l.mu.Unlock()

	delay := at.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
