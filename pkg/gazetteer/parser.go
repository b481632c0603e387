package gazetteer

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/gazetteer/pkg/gazetteer/index"
	"github.com/cognicore/gazetteer/pkg/gazetteer/ingest"
	"github.com/cognicore/gazetteer/pkg/gazetteer/stoplist"
	"github.com/cognicore/gazetteer/pkg/gazetteer/symbols"
)

// Options configures a Parser
type Options struct {
	// Gazetteer is the ordered list of entity values. Required, non-empty.
	Gazetteer Gazetteer
	// MinimumTokensRatio is the fraction of an entity's tokens that must be
	// found in a query for a match, in (0, 1]. Required.
	MinimumTokensRatio float64
	// NStopWords selects the n most frequent gazetteer tokens as stop words.
	// Values above the number of distinct tokens are clamped.
	NStopWords int
	// AdditionalStopWords are added to the stop words after normalization.
	// Words that never occur in the gazetteer have no effect.
	AdditionalStopWords []string
	// FoldDiacritics makes "café" and "cafe" the same token.
	FoldDiacritics bool
}

// Parser is an immutable, queryable index over a gazetteer.
// It is safe for concurrent use by multiple goroutines.
type Parser struct {
	id        string
	tokenizer *ingest.Tokenizer
	symbols   *symbols.Table
	values    []EntityValue
	entities  [][]int // token ids per entity, by rank
	stops     *stoplist.Set
	index     *index.Index
	threshold float64
	checksum  uint64
}

// Stats summarizes a built parser.
type Stats struct {
	ID                 string `json:"id"`
	Entities           int    `json:"entities"`
	Tokens             int    `json:"tokens"`
	StopWords          int    `json:"stop_words"`
	IndexedOccurrences int    `json:"indexed_occurrences"`
	Fingerprint        uint64 `json:"fingerprint"`
}

// Build validates opts and constructs a Parser. All configuration errors
// wrap ErrConfiguration; no partially built parser is ever returned.
func Build(opts Options) (*Parser, error) {
	if opts.Gazetteer.Len() == 0 {
		return nil, fmt.Errorf("%w: gazetteer is empty", ErrConfiguration)
	}
	r := opts.MinimumTokensRatio
	if math.IsNaN(r) || r <= 0 || r > 1 {
		return nil, fmt.Errorf("%w: minimum_tokens_ratio must be in (0, 1], got %v", ErrConfiguration, r)
	}
	if opts.NStopWords < 0 {
		return nil, fmt.Errorf("%w: n_stop_words must be non-negative, got %d", ErrConfiguration, opts.NStopWords)
	}

	p := &Parser{
		id:        ulid.Make().String(),
		tokenizer: ingest.NewTokenizer(ingest.WithDiacriticFolding(opts.FoldDiacritics)),
		symbols:   symbols.New(),
		values:    opts.Gazetteer.Values(),
		threshold: r,
	}

	// Ids are interned entity by entity, token by token, which fixes the
	// tie-break order of the frequency based stop words.
	p.entities = make([][]int, len(p.values))
	for rank, v := range p.values {
		words := p.tokenizer.Words(v.RawValue)
		ids := make([]int, len(words))
		for i, w := range words {
			ids[i] = p.symbols.Intern(w)
		}
		p.entities[rank] = ids
	}

	var explicit []int
	for _, sw := range opts.AdditionalStopWords {
		for _, w := range p.tokenizer.Words(sw) {
			if id, ok := p.symbols.Lookup(w); ok {
				explicit = append(explicit, id)
			}
		}
	}

	stops, err := stoplist.Select(p.symbols.Counts(), opts.NStopWords, explicit)
	if err != nil {
		return nil, fmt.Errorf("select stop words: %w", err)
	}
	p.stops = stops
	p.index = index.Build(p.entities, p.symbols.Len(), stops)
	p.checksum = fingerprint(p.values)

	return p, nil
}

// MinimumTokensRatio returns the decoding threshold.
func (p *Parser) MinimumTokensRatio() float64 {
	return p.threshold
}

// Gazetteer returns a copy of the gazetteer the parser was built from.
func (p *Parser) Gazetteer() Gazetteer {
	return New(p.values...)
}

// StopWords returns the normalized stop words in token id order.
func (p *Parser) StopWords() []string {
	ids := p.stops.IDs()
	words := make([]string, len(ids))
	for i, id := range ids {
		words[i] = p.symbols.Text(id)
	}
	return words
}

// StopWordReason reports why word is a stop word.
func (p *Parser) StopWordReason(word string) (stoplist.Reason, bool) {
	id, ok := p.symbols.Lookup(p.tokenizer.Normalize(word))
	if !ok {
		return stoplist.Reason{}, false
	}
	return p.stops.Reason(id)
}

// Stats returns a summary of the parser.
func (p *Parser) Stats() Stats {
	return Stats{
		ID:                 p.id,
		Entities:           len(p.values),
		Tokens:             p.symbols.Len(),
		StopWords:          p.stops.Len(),
		IndexedOccurrences: p.index.Occurrences(),
		Fingerprint:        p.checksum,
	}
}

// fingerprint hashes the gazetteer in rank order, so that reordering the
// same values yields a different fingerprint.
func fingerprint(values []EntityValue) uint64 {
	d := xxhash.New()
	sep := []byte{0}
	for _, v := range values {
		d.WriteString(v.RawValue)
		d.Write(sep)
		d.WriteString(v.ResolvedValue)
		d.Write(sep)
	}
	return d.Sum64()
}
