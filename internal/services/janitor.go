package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// SweepFunc removes expired records and reports how many were deleted.
type SweepFunc func(ctx context.Context) (int64, error)

type sweep struct {
	name string
	fn   SweepFunc
}

// Janitor periodically purges expired OTP challenges and stored sessions.
type Janitor struct {
	interval time.Duration
	sweeps   []sweep
	wg       sync.WaitGroup
}

// NewJanitor creates a Janitor running every interval.
func NewJanitor(interval time.Duration) *Janitor {
	return &Janitor{interval: interval}
}

// Add registers a sweep under name. Call before Start.
func (j *Janitor) Add(name string, fn SweepFunc) {
	j.sweeps = append(j.sweeps, sweep{name: name, fn: fn})
}

// RunOnce runs every sweep and returns the rows removed per name. A failing
// sweep is logged and does not stop the others.
func (j *Janitor) RunOnce(ctx context.Context) map[string]int64 {
	removed := make(map[string]int64, len(j.sweeps))
	for _, s := range j.sweeps {
		n, err := s.fn(ctx)
		if err != nil {
			log.Printf("[Janitor] %s sweep failed: %v", s.name, err)
			continue
		}
		removed[s.name] = n
		if n > 0 {
			log.Printf("[Janitor] removed %d expired %s", n, s.name)
		}
	}
	return removed
}

// Start runs the sweeps on a ticker until ctx is cancelled. It is a no-op
// when the interval is not positive or nothing is registered.
func (j *Janitor) Start(ctx context.Context) {
	if j.interval <= 0 || len(j.sweeps) == 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.RunOnce(ctx)
			}
		}
	}()
}

// Wait blocks until a started Janitor has stopped.
func (j *Janitor) Wait() {
	j.wg.Wait()
}
