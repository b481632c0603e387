package stoplist

import (
	"fmt"
	"sort"

	"github.com/cognicore/gazetteer/pkg/gazetteer/internalerr"
)

// Set is an immutable set of stop-word token ids.
// Stop words never seed a candidate match but still count when they line up
// with an entity token.
type Set struct {
	reasons map[int]Reason
	ids     []int // ascending
}

// Reason explains why a token is a stopword
type Reason struct {
	Frequent   bool // among the n most frequent gazetteer tokens
	Configured bool // listed explicitly in the configuration
	Count      int  // occurrences across all gazetteer raw values
}

// Select computes the stop-word set from per-token occurrence counts
// (indexed by token id) and explicitly configured token ids.
//
// The n most frequent tokens are selected, ties going to the smaller id.
// n larger than the number of distinct tokens is clamped; a negative n is a
// configuration error. Explicit ids outside the table are ignored.
func Select(counts []int, n int, explicit []int) (*Set, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n_stop_words must be non-negative, got %d", internalerr.ErrInvalidConfig, n)
	}
	if n > len(counts) {
		n = len(counts)
	}

	s := &Set{reasons: make(map[int]Reason, n+len(explicit))}

	if n > 0 {
		order := make([]int, len(counts))
		for id := range order {
			order[id] = id
		}
		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
		for _, id := range order[:n] {
			s.reasons[id] = Reason{Frequent: true, Count: counts[id]}
		}
	}

	for _, id := range explicit {
		if id < 0 || id >= len(counts) {
			continue
		}
		r := s.reasons[id]
		r.Configured = true
		r.Count = counts[id]
		s.reasons[id] = r
	}

	s.ids = make([]int, 0, len(s.reasons))
	for id := range s.reasons {
		s.ids = append(s.ids, id)
	}
	sort.Ints(s.ids)

	return s, nil
}

// Empty returns a set without stop words.
func Empty() *Set {
	return &Set{reasons: map[int]Reason{}}
}

// IsStop checks if a token id is a stopword
func (s *Set) IsStop(id int) bool {
	_, ok := s.reasons[id]
	return ok
}

// Reason returns why id is a stop word.
func (s *Set) Reason(id int) (Reason, bool) {
	r, ok := s.reasons[id]
	return r, ok
}

// IDs returns the stop-word ids in ascending order.
func (s *Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of stop words.
func (s *Set) Len() int {
	return len(s.ids)
}
