package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wptable/rankmatrix/internal/config"
	"github.com/wptable/rankmatrix/pkg/logger"
	"github.com/wptable/rankmatrix/pkg/metrics"
)

// Open builds the store selected by cfg.StoreDriver, applying migrations for
// postgres when enabled, and wraps it with query metrics.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	var (
		s   Store
		err error
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		s = NewMemory()
	case config.StorePostgres:
		if cfg.RunMigrations {
			if err := RunMigrations(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			log.Info(ctx, "migrations applied")
		}
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	case config.StoreRedis:
		s, err = NewRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "document store opened", logger.String("driver", cfg.StoreDriver))
	return Instrument(s), nil
}

// instrumented records latency and failures per collection.
type instrumented struct {
	Store
}

// Instrument wraps s so that every collection query is observed in metrics.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s}
}

func observe(collection string, start time.Time, err error) {
	metrics.RecordStoreQuery(collection, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(collection)
	}
}

func (i *instrumented) Find(ctx context.Context, collection string) ([]Document, error) {
	start := time.Now()
	docs, err := i.Store.Find(ctx, collection)
	observe(collection, start, err)
	return docs, err
}

func (i *instrumented) FindOne(ctx context.Context, collection string) (Document, error) {
	start := time.Now()
	doc, err := i.Store.FindOne(ctx, collection)
	observe(collection, start, err)
	return doc, err
}

func (i *instrumented) Count(ctx context.Context, collection string) (int, error) {
	start := time.Now()
	n, err := i.Store.Count(ctx, collection)
	observe(collection, start, err)
	return n, err
}
