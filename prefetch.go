package apexview

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Initialize applies startup behavior: after the configured delay it
// warms the cache with the high-value resources (recent season
// schedules, current standings, news) in a detached goroutine. The
// warmup is best-effort; failures go to logging and analytics only,
// and nothing awaits its completion.
func (c *Client) Initialize(ctx context.Context) {
	if !c.cfg.Prefetch.Enabled {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.Prefetch.Delay.Std()):
		}
		c.Warmup(ctx)
	}()
}

// Warmup fetches the warmup set through the cache synchronously: the
// season schedule for each configured year, then the current-year
// standings and news. Requests are paced; individual failures are
// logged and skipped. The only error returned is ctx expiry.
func (c *Client) Warmup(ctx context.Context) error {
	c.logger.Info("starting cache warmup",
		zap.Ints("years", c.cfg.Prefetch.Years))

	currentYear := time.Now().Year()
	var warm []func() error
	for _, year := range c.cfg.Prefetch.Years {
		year := year
		warm = append(warm, func() error {
			_, err := c.api.Races(ctx, year)
			return err
		})
	}
	warm = append(warm,
		func() error {
			_, err := c.api.SeasonDriverStandings(ctx, currentYear)
			return err
		},
		func() error {
			_, err := c.api.SeasonConstructorStandings(ctx, currentYear)
			return err
		},
		func() error {
			_, err := c.api.News(ctx)
			return err
		},
	)

	for _, fn := range warm {
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}
		if err := fn(); err != nil {
			c.logger.Warn("warmup fetch failed", zap.Error(err))
		}
	}
	c.logger.Info("cache warmup complete")
	return nil
}
