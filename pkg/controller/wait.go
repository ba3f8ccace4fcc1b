package controller

import (
	"context"
	"time"
)

// Waiter pauses the control loop. Every delay goes through it so a caller can
// swap the blocking sleep for another timer.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

type WaitFunc func(ctx context.Context, d time.Duration) error

func (f WaitFunc) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Sleep blocks for d. It only returns early when ctx is done, which happens on
// shutdown.
var Sleep Waiter = WaitFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})
