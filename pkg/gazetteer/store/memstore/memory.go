package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/gazetteer/pkg/gazetteer/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	entities []store.Entity
	stops    map[string]struct{}
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{stops: make(map[string]struct{})}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// AppendEntities adds entities after the existing ones, assigning ranks.
func (s *Store) AppendEntities(ctx context.Context, entities []store.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		e.Rank = len(s.entities)
		s.entities = append(s.entities, e)
	}
	return nil
}

// Entities returns all entities ordered by rank.
func (s *Store) Entities(ctx context.Context) ([]store.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Entity, len(s.entities))
	copy(out, s.entities)
	return out, nil
}

// Reset removes all entities.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = nil
	return nil
}

// UpsertStoplist replaces the stopword set.
func (s *Store) UpsertStoplist(ctx context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stops = make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		s.stops[tok] = struct{}{}
	}
	return nil
}

// StopWords returns the stored stop words in sorted order.
func (s *Store) StopWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.stops))
	for tok := range s.stops {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out, nil
}
