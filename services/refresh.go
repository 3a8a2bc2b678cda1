package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReloadFunc is called after a dataset was swapped in by the refresh job.
type ReloadFunc func(name string, count int)

// RefreshAll reloads every registered dataset once. Failed reloads keep the
// previous collection and are only logged.
func (c *Catalog) RefreshAll(ctx context.Context, onReload ReloadFunc) {
	for _, info := range c.List() {
		ds, err := c.Reload(ctx, info.Name)
		if err != nil {
			c.log.Warn("scheduled reload failed", zap.String("dataset", info.Name), zap.Error(err))
			continue
		}
		if onReload != nil {
			onReload(info.Name, len(ds.Subjects))
		}
	}
}

// StartRefreshJob reloads all datasets every interval until ctx is done.
// A zero interval disables the job. The returned channel is closed once the
// job goroutine has exited.
func StartRefreshJob(ctx context.Context, c *Catalog, interval time.Duration, onReload ReloadFunc) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.log.Debug("refresh job triggered")
				c.RefreshAll(ctx, onReload)
			}
		}
	}()

	c.log.Info("refresh job started", zap.Duration("interval", interval))
	return done
}
