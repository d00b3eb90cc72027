// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - All future functions must accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Probability modes. Only one is active per deployment.
const (
	ProbabilityDerived     = "derived"
	ProbabilityPrecomputed = "precomputed"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5001".
	Addr string `koanf:"addr"`

	// StoreDriver selects the document store backend.
	StoreDriver string `koanf:"store_driver"`

	// DatabaseURL is the Postgres connection string for the postgres driver.
	DatabaseURL string `koanf:"database_url"`

	// RunMigrations applies embedded migrations on startup (postgres only).
	RunMigrations bool `koanf:"run_migrations"`

	// Redis connection settings for the redis driver.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	// SeedFile is a JSON file of collections written into empty collections at startup.
	SeedFile string `koanf:"seed_file"`

	// TeamMappingsFile is the team_name,team_id CSV.
	TeamMappingsFile string `koanf:"team_mappings_file"`

	// RankingsFile is the ID-keyed historical rankings JSON.
	RankingsFile string `koanf:"rankings_file"`

	// CacheTTLSeconds and CacheCapacity bound the response cache.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
	CacheCapacity   int `koanf:"cache_capacity"`

	// ProbabilityMode selects derived (wins / games) or precomputed probabilities.
	ProbabilityMode string `koanf:"probability_mode"`

	// WarmCache populates the cache at startup; WarmMaxRank bounds the match pairs warmed.
	WarmCache   bool `koanf:"warm_cache"`
	WarmMaxRank int  `koanf:"warm_max_rank"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":5001",
		StoreDriver:      StoreMemory,
		RunMigrations:    true,
		RedisAddr:        "localhost:6379",
		RedisPrefix:      "wptable",
		SeedFile:         "data/seed.json",
		TeamMappingsFile: "data/WP_team_name_mappings.csv",
		RankingsFile:     "data/mens_waterpolo_rankings_with_ids.json",
		CacheTTLSeconds:  3600,
		CacheCapacity:    100,
		ProbabilityMode:  ProbabilityDerived,
		WarmCache:        true,
		WarmMaxRank:      5,
	}
}

// CacheTTL returns the configured TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks the fields Load cannot repair.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.CacheCapacity <= 0:
		return fmt.Errorf("%w: cache_capacity must be positive", ErrInvalidConfig)
	case c.WarmMaxRank < 0 || c.WarmMaxRank > 20:
		return fmt.Errorf("%w: warm_max_rank must be between 0 and 20", ErrInvalidConfig)
	}

	switch c.ProbabilityMode {
	case ProbabilityDerived, ProbabilityPrecomputed:
	default:
		return fmt.Errorf("%w: unknown probability_mode %q", ErrInvalidConfig, c.ProbabilityMode)
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres driver", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}
