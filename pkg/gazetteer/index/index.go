package index

import "github.com/cognicore/gazetteer/pkg/gazetteer/stoplist"

// Occurrence locates a token inside a gazetteer entity.
type Occurrence struct {
	Rank     int // entity position in the gazetteer
	Position int // token position inside the entity raw value
}

// Index is an inverted index from token id to the entity positions where
// the token occurs. Buckets are slices indexed by token id and each bucket
// is ordered by rank, then position. The index is immutable once built.
type Index struct {
	buckets     [][]Occurrence
	stopOnly    [][]Occurrence
	occurrences int
}

// Build indexes entities, given as token id sequences in rank order.
// nTokens is the number of distinct token ids.
//
// Stop words are left out of the regular buckets. An entity made only of
// stop words could never be seeded that way, so its tokens go to a separate
// stop-only bucket instead.
func Build(entities [][]int, nTokens int, stops *stoplist.Set) *Index {
	idx := &Index{
		buckets:  make([][]Occurrence, nTokens),
		stopOnly: make([][]Occurrence, nTokens),
	}

	for rank, tokens := range entities {
		if len(tokens) > 0 && allStop(tokens, stops) {
			for pos, id := range tokens {
				idx.stopOnly[id] = append(idx.stopOnly[id], Occurrence{Rank: rank, Position: pos})
			}
			continue
		}
		for pos, id := range tokens {
			if stops.IsStop(id) {
				continue
			}
			idx.buckets[id] = append(idx.buckets[id], Occurrence{Rank: rank, Position: pos})
			idx.occurrences++
		}
	}

	return idx
}

// Bucket returns the occurrences of a non-stop token id.
// The returned slice must not be modified.
func (idx *Index) Bucket(id int) []Occurrence {
	if id < 0 || id >= len(idx.buckets) {
		return nil
	}
	return idx.buckets[id]
}

// StopOnlyBucket returns the occurrences of a stop token id inside entities
// made exclusively of stop words.
func (idx *Index) StopOnlyBucket(id int) []Occurrence {
	if id < 0 || id >= len(idx.stopOnly) {
		return nil
	}
	return idx.stopOnly[id]
}

// Occurrences returns the number of entries in the regular buckets.
func (idx *Index) Occurrences() int {
	return idx.occurrences
}

func allStop(tokens []int, stops *stoplist.Set) bool {
	for _, id := range tokens {
		if !stops.IsStop(id) {
			return false
		}
	}
	return true
}
