package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wptable/rankmatrix/pkg/logger"
	"github.com/wptable/rankmatrix/pkg/metrics"
)

// WarmResult is the outcome of one warm-up attempt.
type WarmResult struct {
	Operation string
	Args      []string
	Duration  time.Duration
	Err       error
}

// OK reports whether the attempt populated the cache.
func (r WarmResult) OK() bool { return r.Err == nil }

// Warm populates the cache with the matrix and every ordered rank pair
// (i, j), i != j, up to the configured bound. Failures and panics are
// recorded in the results and logged; they never stop the pass.
func (s *Service) Warm(ctx context.Context) []WarmResult {
	start := time.Now()
	results := []WarmResult{s.warmOne(ctx, OpMatrix, nil, func(ctx context.Context) error {
		_, err := s.Matrix(ctx)
		return err
	})}

	for i := 1; i <= s.warmMaxRank; i++ {
		for j := 1; j <= s.warmMaxRank; j++ {
			if i == j {
				continue
			}
			row, col := strconv.Itoa(i), strconv.Itoa(j)
			results = append(results, s.warmOne(ctx, OpMatches, []string{row, col}, func(ctx context.Context) error {
				_, err := s.Matches(ctx, row, col)
				return err
			}))
		}
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	s.logger.Info(ctx, "cache warm-up finished",
		logger.Int("attempts", len(results)),
		logger.Int("failed", failed),
		logger.Int("cacheSize", s.cache.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return results
}

func (s *Service) warmOne(ctx context.Context, op string, args []string, fn func(context.Context) error) (res WarmResult) {
	res = WarmResult{Operation: op, Args: args}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		res.Duration = time.Since(start)

		outcome := "ok"
		if res.Err != nil {
			outcome = "failed"
			s.logger.Warn(ctx, "cache warm-up attempt failed",
				logger.String("operation", op),
				logger.Strings("args", args),
				logger.Error(res.Err),
			)
		} else {
			s.logger.Debug(ctx, "cache warm-up attempt",
				logger.String("operation", op),
				logger.Strings("args", args),
				logger.Duration("duration", res.Duration),
			)
		}
		metrics.RecordWarmResult(op, outcome)
	}()

	res.Err = fn(ctx)
	return res
}
