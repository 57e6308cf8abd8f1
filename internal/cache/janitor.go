package cache

import (
	"context"
	"time"
)

// StartJanitor sweeps expired entries every interval until ctx is done.
// The returned channel is closed once the sweeper has exited. A non-positive
// interval disables the sweeper and returns an already closed channel.
func (c *TTLCache[K, V]) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	ticker := c.clock.Ticker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.PurgeExpired()
			}
		}
	}()
	return done
}
