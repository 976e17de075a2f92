package service

import (
	"context"
	"time"
)

// realClock implements Clock using actual system time
type realClock struct{}

// Now returns the current system time
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep waits on a timer so that cancellation of ctx wakes it early.
func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
