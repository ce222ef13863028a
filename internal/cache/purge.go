package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPurgeInterval is how often expired entries are swept.
const DefaultPurgeInterval = 10 * time.Minute

// Purger drops expired entries and reports how many were removed.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// RunPurger sweeps c every interval until ctx is done. It returns at once
// when c keeps no expired state of its own.
func RunPurger(ctx context.Context, c Cache, interval time.Duration) {
	p, ok := c.(Purger)
	if !ok {
		return
	}
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Purge(ctx)
			if err != nil {
				slog.Warn("cache purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("cache purged", "removed", n)
			}
		}
	}
}
