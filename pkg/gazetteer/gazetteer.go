// Package gazetteer resolves free-text mentions of known entities to their
// canonical values.
//
// A Parser is built once from an ordered list of entity values (the
// gazetteer) and then answers queries. Matching tolerates skipped tokens:
// an entity matches a contiguous run of query tokens when the fraction of
// its tokens found there reaches the minimum tokens ratio. When several
// entities compete for the same words, the one sharing the most tokens with
// the query wins, and ties go to the entity that comes first in the
// gazetteer. The order of the gazetteer therefore matters.
//
//	g := gazetteer.FromPairs([][2]string{
//		{"the rolling stones", "The Rolling Stones"},
//		{"the crying stones", "The Crying Stones"},
//	})
//	p, err := gazetteer.Build(gazetteer.Options{Gazetteer: g, MinimumTokensRatio: 2. / 3.})
//	...
//	parsed, err := p.Run("I like the stones", 5)
package gazetteer

import "github.com/cognicore/gazetteer/pkg/gazetteer/internalerr"

// Errors reported by the parser. Use errors.Is to test for them.
var (
	// ErrConfiguration is returned by Build for an unusable configuration.
	ErrConfiguration = internalerr.ErrInvalidConfig
	// ErrQuery signals an internal inconsistency while decoding a query.
	ErrQuery = internalerr.ErrQuery
)

// EntityValue is one gazetteer entry. RawValue is tokenized and matched
// against queries; ResolvedValue is returned verbatim on a match.
type EntityValue struct {
	RawValue      string `json:"raw_value" yaml:"raw_value" toml:"raw_value"`
	ResolvedValue string `json:"resolved_value" yaml:"resolved_value" toml:"resolved_value"`
}

// Gazetteer is an ordered list of entity values. The position of a value is
// its rank: lower ranks win ties.
type Gazetteer struct {
	values []EntityValue
}

// New creates a gazetteer holding values in the given order.
func New(values ...EntityValue) Gazetteer {
	g := Gazetteer{values: make([]EntityValue, 0, len(values))}
	for _, v := range values {
		g.Add(v)
	}
	return g
}

// FromPairs builds a gazetteer from (raw value, resolved value) pairs.
func FromPairs(pairs [][2]string) Gazetteer {
	g := Gazetteer{values: make([]EntityValue, 0, len(pairs))}
	for _, pair := range pairs {
		g.Add(EntityValue{RawValue: pair[0], ResolvedValue: pair[1]})
	}
	return g
}

// Add appends a value; its rank is the number of values added before it.
// Duplicates are kept.
func (g *Gazetteer) Add(v EntityValue) {
	g.values = append(g.values, v)
}

// Len returns the number of values.
func (g Gazetteer) Len() int {
	return len(g.values)
}

// Values returns a copy of the values in rank order.
func (g Gazetteer) Values() []EntityValue {
	out := make([]EntityValue, len(g.values))
	copy(out, g.values)
	return out
}

// ResolvedValue is the resolution of a match: the resolved string and the
// raw value that produced it.
type ResolvedValue struct {
	Resolved string `json:"resolved"`
	RawValue string `json:"raw_value"`
}

// Range is a half-open byte interval [Start, End) in a query.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParsedValue is an entity found in a query.
type ParsedValue struct {
	MatchedValue  string          `json:"matched_value"`
	ResolvedValue ResolvedValue   `json:"resolved_value"`
	Alternatives  []ResolvedValue `json:"alternatives,omitempty"`
	Range         Range           `json:"range"`
}
