package crawler

import (
	"context"
	"time"

	"github.com/thep200/github-trending/pkg/log"
)

// Schedule crawls once, then again on every tick until ctx is done. A failed
// crawl is logged and the schedule keeps going. With every <= 0 it crawls a
// single time and returns that crawl's error.
func Schedule(ctx context.Context, logger log.Logger, c Crawler, every time.Duration) error {
	if every <= 0 {
		_, err := c.Crawl(ctx)
		return err
	}

	run := func() {
		if _, err := c.Crawl(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Scheduled crawl failed: %v", err)
		}
	}

	run()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Schedule stopped")
			return nil
		case <-ticker.C:
			if ctx.Err() == nil {
				run()
			}
		}
	}
}
