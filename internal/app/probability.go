package service

import (
	"context"
	"fmt"

	"github.com/wptable/rankmatrix/internal/adapters/docstore"
	"github.com/wptable/rankmatrix/internal/config"
	"github.com/wptable/rankmatrix/internal/domain/rank"
)

// ProbabilitySource produces the 21 aligned win-probability rows. games
// holds the already aligned game-count rows of the same matrix.
type ProbabilitySource interface {
	Mode() string
	Probabilities(ctx context.Context, store docstore.Store, games []rank.Row) ([]rank.Row, error)
}

// NewProbabilitySource returns the source for mode.
func NewProbabilitySource(mode string) (ProbabilitySource, error) {
	switch mode {
	case config.ProbabilityDerived, "":
		return derivedSource{}, nil
	case config.ProbabilityPrecomputed:
		return precomputedSource{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProbabilityMode, mode)
	}
}

// derivedSource divides aligned win counts by aligned game counts.
type derivedSource struct{}

func (derivedSource) Mode() string { return config.ProbabilityDerived }

func (derivedSource) Probabilities(ctx context.Context, store docstore.Store, games []rank.Row) ([]rank.Row, error) {
	wins, err := alignCollection(ctx, store, docstore.CollectionWins, rank.Integral)
	if err != nil {
		return nil, err
	}
	return rank.DeriveProbabilities(wins, games), nil
}

// precomputedSource reads a collection of already computed probabilities.
type precomputedSource struct{}

func (precomputedSource) Mode() string { return config.ProbabilityPrecomputed }

func (precomputedSource) Probabilities(ctx context.Context, store docstore.Store, _ []rank.Row) ([]rank.Row, error) {
	return alignCollection(ctx, store, docstore.CollectionProbabilities, rank.Fractional)
}

func alignCollection(ctx context.Context, store docstore.Store, collection string, kind rank.ValueKind) ([]rank.Row, error) {
	docs, err := store.Find(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	rows, err := rank.Align(docs, kind)
	if err != nil {
		return nil, fmt.Errorf("align %s: %w", collection, err)
	}
	return rows, nil
}
