package store

import "context"

// Store persists the ordered reference list a parser is built from.
// It never holds the built index: parsers are rebuilt from the entities.
type Store interface {
	Close() error

	// Entities
	AppendEntities(ctx context.Context, entities []Entity) error
	Entities(ctx context.Context) ([]Entity, error)
	Reset(ctx context.Context) error

	// Stoplist (optional; empty when never set)
	StopWords(ctx context.Context) ([]string, error)
	UpsertStoplist(ctx context.Context, tokens []string) error
}

// Entity is a stored gazetteer entry. Rank is assigned by the store on
// append and never renumbered.
type Entity struct {
	Rank          int
	RawValue      string
	ResolvedValue string
}
