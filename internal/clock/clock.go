// Package clock provides the blocking waits used between synthetic input events.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock sleeps for a duration, returning early with ctx.Err() on cancellation.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Real sleeps on the wall clock.
type Real struct{}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
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

// Recorder never blocks; it accumulates requested sleeps. Used by tests.
type Recorder struct {
	mu     sync.Mutex
	Sleeps []time.Duration
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.Sleeps = append(r.Sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Total is the sum of all recorded sleeps.
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum time.Duration
	for _, d := range r.Sleeps {
		sum += d
	}
	return sum
}
