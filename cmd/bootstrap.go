package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/wptable/rankmatrix/internal/adapters/cache"
	"github.com/wptable/rankmatrix/internal/adapters/docstore"
	service "github.com/wptable/rankmatrix/internal/app"
	"github.com/wptable/rankmatrix/internal/config"
	"github.com/wptable/rankmatrix/internal/domain/history"
	"github.com/wptable/rankmatrix/internal/domain/teams"
	"github.com/wptable/rankmatrix/pkg/logger"
)

// bootstrap opens the store and loads every data source the service reads.
// The caller owns the returned store.
func bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, docstore.Store, error) {
	store, err := docstore.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open document store: %w", err)
	}

	fail := func(err error) (*service.Service, docstore.Store, error) {
		_ = store.Close()
		return nil, nil, err
	}

	if err := seed(ctx, cfg.SeedFile, store, log); err != nil {
		return fail(err)
	}

	resolver, err := loadTeams(ctx, cfg.TeamMappingsFile, log)
	if err != nil {
		return fail(err)
	}

	hist, err := loadHistory(ctx, cfg.RankingsFile, resolver, log)
	if err != nil {
		return fail(err)
	}

	probs, err := service.NewProbabilitySource(cfg.ProbabilityMode)
	if err != nil {
		return fail(err)
	}

	svc := service.New(
		service.WithStore(store),
		service.WithCache(cache.New(cache.WithTTL(cfg.CacheTTL()), cache.WithCapacity(cfg.CacheCapacity))),
		service.WithResolver(resolver),
		service.WithHistory(hist),
		service.WithProbabilitySource(probs),
		service.WithWarmMaxRank(cfg.WarmMaxRank),
		service.WithLogger(log.Named("service")),
	)
	return svc, store, nil
}

// seed writes the seed file into empty collections. A missing file is not an error.
func seed(ctx context.Context, path string, store docstore.Store, log logger.Logger) error {
	if path == "" {
		return nil
	}
	s, err := docstore.LoadSeed(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug(ctx, "no seed file", logger.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	n, err := s.Apply(ctx, store)
	if err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	log.Info(ctx, "seed applied", logger.String("path", path), logger.Int("documents", n))
	return nil
}

func loadTeams(ctx context.Context, path string, log logger.Logger) (*teams.Resolver, error) {
	table, err := teams.LoadCSV(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn(ctx, "team mappings file not found; names will not resolve", logger.String("path", path))
		return teams.NewResolver(teams.NewTable(nil)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load team mappings: %w", err)
	}
	log.Info(ctx, "team mappings loaded",
		logger.String("path", path),
		logger.Int("names", table.Len()),
		logger.Int("teams", len(table.IDs())))
	return teams.NewResolver(table), nil
}

func loadHistory(ctx context.Context, path string, resolver *teams.Resolver, log logger.Logger) (*history.History, error) {
	h, report, err := history.LoadFile(path, resolver)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn(ctx, "rankings file not found; history is empty", logger.String("path", path))
		return &history.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rankings: %w", err)
	}

	log.Info(ctx, "ranking history loaded",
		logger.String("path", path),
		logger.Int("periods", report.Periods),
		logger.Int("records", report.Records))
	if len(report.SkippedPeriods) > 0 {
		log.Warn(ctx, "skipped periods with unparseable dates", logger.Strings("periods", report.SkippedPeriods))
	}
	if len(report.UnresolvedNames) > 0 {
		log.Warn(ctx, "team names without an identifier", logger.Strings("names", report.UnresolvedNames))
	}
	return h, nil
}
