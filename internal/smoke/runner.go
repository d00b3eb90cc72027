package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wptable/rankmatrix/pkg/logger"
)

// Run probes health, runs every check, then issues cfg.Requests concurrent
// GETs. A failed health probe stops the run; failed checks are joined into
// the returned error and the load phase still runs.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Stats, error) {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.withDefaults()
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Int("requests", cfg.Requests),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, c, cfg); err != nil {
		return stats, err
	}
	log.Info(ctx, "server is healthy")

	var errs []error
	for _, chk := range checks {
		stats.Checks++
		if err := chk.run(ctx, c, cfg); err != nil {
			stats.Failed = append(stats.Failed, chk.name)
			errs = append(errs, fmt.Errorf("%s: %w", chk.name, err))
			log.Error(ctx, "check failed", logger.String("check", chk.name), logger.Error(err))
			continue
		}
		stats.ChecksPassed++
		if cfg.Verbose {
			log.Info(ctx, "check passed", logger.String("check", chk.name))
		}
	}

	load(ctx, c, cfg, stats, log)

	log.Info(ctx, "smoke run finished",
		logger.Int("checks", stats.Checks),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("requests", stats.Requests),
		logger.Int("requestsOK", stats.RequestsOK),
		logger.Int("requestsFailed", stats.RequestsFailed))
	return stats, errors.Join(errs...)
}

// load spreads cfg.Requests GETs over the read endpoints using a worker pool.
// 200 and 304 count as success.
func load(ctx context.Context, c *client, cfg Config, stats *Stats, log logger.Logger) {
	if cfg.Requests == 0 {
		return
	}
	paths := []string{
		"/api/matrix",
		"/api/matches/" + cfg.RowRank + "/" + cfg.ColRank,
		"/api/teams",
		"/api/health",
	}

	var ok, failed int64
	jobs := make(chan string, cfg.Workers*channelMultiplier)
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				r, err := c.get(ctx, path)
				if err != nil || (r.status != http.StatusOK && r.status != http.StatusNotModified) {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "request failed", logger.String("path", path), logger.Int("status", r.status), logger.Any("error", err))
					}
					continue
				}
				atomic.AddInt64(&ok, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range cfg.Requests {
			select {
			case <-ctx.Done():
				return
			case jobs <- paths[i%len(paths)]:
			}
		}
	}()

	wg.Wait()

	stats.RequestsOK = int(atomic.LoadInt64(&ok))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.Requests = stats.RequestsOK + stats.RequestsFailed
}
