// Package docstore reads named collections of schemaless documents.
//
// Three drivers share one interface: an in-memory store for development and
// tests, a Postgres JSONB table and Redis lists.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Collection names used by the service.
const (
	CollectionWins          = "wins"
	CollectionGames         = "Delim"
	CollectionMatches       = "matches"
	CollectionProbabilities = "Probabilities"
)

// Document is one schemaless record.
type Document = map[string]any

// Store is a read-mostly document store. Calls block and honour ctx.
type Store interface {
	// Find returns every document of collection in insertion order.
	// An unknown collection yields an empty slice.
	Find(ctx context.Context, collection string) ([]Document, error)

	// FindOne returns the first document of collection or ErrNotFound.
	FindOne(ctx context.Context, collection string) (Document, error)

	// Insert appends docs to collection.
	Insert(ctx context.Context, collection string, docs ...Document) error

	Count(ctx context.Context, collection string) (int, error)

	Ping(ctx context.Context) error

	Close() error
}

// Seed maps collection names to their documents.
type Seed map[string][]Document

// LoadSeed reads a seed file: a JSON object of collection -> document array.
func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSeed, err)
	}
	return seed, nil
}

// Apply inserts the seed into every collection of s that is still empty and
// returns the number of documents written.
func (seed Seed) Apply(ctx context.Context, s Store) (int, error) {
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		n, err := s.Count(ctx, name)
		if err != nil {
			return written, fmt.Errorf("count %s: %w", name, err)
		}
		if n > 0 || len(seed[name]) == 0 {
			continue
		}
		if err := s.Insert(ctx, name, seed[name]...); err != nil {
			return written, fmt.Errorf("seed %s: %w", name, err)
		}
		written += len(seed[name])
	}
	return written, nil
}
