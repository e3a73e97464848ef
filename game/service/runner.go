package service

import (
	"context"
	"time"
)

// DefaultTickInterval is the host simulation cadence.
const DefaultTickInterval = 50 * time.Millisecond

// Run drives the service's simulation loop until the context is cancelled.
// Each tick passes the real elapsed time to the service, so a slow tick
// produces one larger step instead of losing time.
func Run(ctx context.Context, svc GameService, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			svc.Tick(float64(now.Sub(last)) / float64(time.Millisecond))
			last = now
		}
	}
}
