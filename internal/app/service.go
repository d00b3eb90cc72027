// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/wptable/rankmatrix/internal/adapters/cache"
	"github.com/wptable/rankmatrix/internal/adapters/docstore"
	"github.com/wptable/rankmatrix/internal/domain/history"
	"github.com/wptable/rankmatrix/internal/domain/rank"
	"github.com/wptable/rankmatrix/internal/domain/teams"
	"github.com/wptable/rankmatrix/internal/domain/types"
	"github.com/wptable/rankmatrix/pkg/logger"
	"github.com/wptable/rankmatrix/pkg/metrics"
)

// Cached operation names. They prefix every cache fingerprint.
const (
	OpMatrix  = "matrix"
	OpMatches = "matches"
)

const healthMessage = "rankmatrix server is running"

// Service answers the read endpoints from the document store, the team
// table and the ranking history, caching store-backed results.
type Service struct {
	store    docstore.Store
	cache    cache.Cache
	resolver *teams.Resolver
	history  *history.History
	probs    ProbabilitySource
	flight   singleflight.Group

	warmMaxRank int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store docstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the response cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithResolver sets the team name resolver.
func WithResolver(r *teams.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithHistory sets the ranking history.
func WithHistory(h *history.History) Option {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// WithProbabilitySource selects how matrix probabilities are produced.
func WithProbabilitySource(p ProbabilitySource) Option {
	return func(s *Service) {
		if p != nil {
			s.probs = p
		}
	}
}

// WithWarmMaxRank bounds the rank pairs warmed at startup.
func WithWarmMaxRank(n int) Option {
	return func(s *Service) {
		if n >= 0 && n <= rank.MaxRank {
			s.warmMaxRank = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Unset dependencies default to empty in-memory ones.
func New(opts ...Option) *Service {
	s := &Service{
		store:       docstore.NewMemory(),
		cache:       cache.New(),
		resolver:    teams.NewResolver(teams.NewTable(nil)),
		history:     &history.History{},
		probs:       derivedSource{},
		warmMaxRank: 5,
		logger:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// cached returns the value stored under op+args or computes, stores and
// returns it. Concurrent misses for one fingerprint share a single computation,
// which runs detached from the cancellation of the caller that started it.
func (s *Service) cached(ctx context.Context, op string, args []string, compute func(context.Context) (any, error)) (any, error) {
	key := cache.Key(append([]string{op}, args...)...)
	if v, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit(op)
		return v, nil
	}
	metrics.RecordCacheMiss(op)

	v, err, _ := s.flight.Do(key, func() (any, error) {
		v, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v)
		return v, nil
	})
	return v, err
}

// Matrix returns the aligned probability rows and game-count rows.
func (s *Service) Matrix(ctx context.Context) (types.Matrix, error) {
	v, err := s.cached(ctx, OpMatrix, nil, func(ctx context.Context) (any, error) {
		games, err := alignCollection(ctx, s.store, docstore.CollectionGames, rank.Integral)
		if err != nil {
			return nil, err
		}
		probs, err := s.probs.Probabilities(ctx, s.store, games)
		if err != nil {
			return nil, err
		}
		s.logger.Debug(ctx, "matrix assembled",
			logger.String("mode", s.probs.Mode()),
			logger.Int("probRows", len(probs)),
			logger.Int("delimRows", len(games)),
		)
		return types.Matrix{Headers: rank.Headers(), ProbData: probs, DelimData: games}, nil
	})
	if err != nil {
		return types.Matrix{}, err
	}
	return v.(types.Matrix), nil
}

// Matches returns the recorded games between two one-based ranks.
func (s *Service) Matches(ctx context.Context, rowRank, colRank string) (types.Matches, error) {
	key, err := rank.MatchKey(rowRank, colRank)
	if err != nil {
		return types.Matches{}, err
	}

	v, err := s.cached(ctx, OpMatches, []string{rowRank, colRank}, func(ctx context.Context) (any, error) {
		doc, err := s.store.FindOne(ctx, docstore.CollectionMatches)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", docstore.CollectionMatches, err)
		}
		games, ok := doc[key]
		if !ok {
			return nil, fmt.Errorf("%w: key %s", ErrMatchKeyMissing, key)
		}
		return types.Matches{
			Matches: games,
			Count:   countOf(games),
			RowRank: rowRank,
			ColRank: colRank,
		}, nil
	})
	if err != nil {
		return types.Matches{}, err
	}
	return v.(types.Matches), nil
}

func countOf(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 1
	}
}

// Rankings returns the history of the comma-separated teams between two
// inclusive YYYY-MM-DD bounds. Names that resolve to nothing are reported
// in Unmapped and still matched against unresolved history records.
func (s *Service) Rankings(ctx context.Context, teamNames, startDate, endDate string) (types.Rankings, error) {
	from, err := history.ParseQueryDate(startDate)
	if err != nil {
		return types.Rankings{}, err
	}
	to, err := history.ParseQueryDate(endDate)
	if err != nil {
		return types.Rankings{}, err
	}
	if from.After(to) {
		return types.Rankings{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, startDate, endDate)
	}

	out := types.Rankings{
		Teams:     []types.TeamRef{},
		StartDate: startDate,
		EndDate:   endDate,
		Unmapped:  []string{},
	}
	var (
		ids   []int
		names []string
	)
	for _, raw := range strings.Split(teamNames, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		res := s.resolver.ResolveOrRaw(name)
		metrics.RecordTeamResolution(string(res.Tier))
		out.Teams = append(out.Teams, types.TeamRef{Name: name, ID: res.ID, Tier: string(res.Tier)})
		if !res.Resolved() {
			s.logger.Warn(ctx, "unmapped team name", logger.String("team", name))
			out.Unmapped = append(out.Unmapped, name)
			names = append(names, name)
			continue
		}
		ids = append(ids, res.ID)
	}

	out.Rankings = s.history.Query(ids, names, from, to)
	out.Count = len(out.Rankings)
	return out, nil
}

// Teams dumps the mapping table and the teams observed in the history.
func (s *Service) Teams(_ context.Context) types.Teams {
	table := s.resolver.Table()
	return types.Teams{
		Teams:         table.Canonical(),
		Mappings:      table.Names(),
		ObservedTeams: s.history.TeamIDs(),
		Count:         len(table.IDs()),
	}
}

// Health reports liveness. No dependency is checked.
func (s *Service) Health(_ context.Context) types.Health {
	return types.Health{Status: "healthy", Message: healthMessage}
}

// CacheInfo describes the cache contents.
func (s *Service) CacheInfo(_ context.Context) cache.Info {
	return s.cache.Info()
}

// ClearCache drops every cached entry.
func (s *Service) ClearCache(ctx context.Context) types.CacheCleared {
	n := s.cache.Clear()
	s.logger.Info(ctx, "cache cleared", logger.Int("removed", n))
	return types.CacheCleared{Status: "cleared", Removed: n}
}
