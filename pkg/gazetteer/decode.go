package gazetteer

import (
	"fmt"
	"sort"

	"github.com/cognicore/gazetteer/pkg/gazetteer/index"
	"github.com/cognicore/gazetteer/pkg/gazetteer/ingest"
)

// match is a candidate resolution of one entity over a contiguous run of
// query tokens [firstQuery, lastQuery].
type match struct {
	rank        int
	firstQuery  int
	lastQuery   int
	firstEntity int // entity position of the first consumed token
	lastEntity  int // entity position of the last consumed token
	consumed    int
}

// Run finds the gazetteer entities mentioned in query.
//
// Results are ordered by position in the query and never overlap. Each
// result lists at most maxAlternatives alternative resolutions: entities
// that matched the same words equally well but rank lower. A negative
// maxAlternatives is treated as zero.
//
// Run does not fail on well-formed input: unknown words and weak matches
// are simply left out. An error wrapping ErrQuery indicates a bug.
func (p *Parser) Run(query string, maxAlternatives int) ([]ParsedValue, error) {
	if maxAlternatives < 0 {
		maxAlternatives = 0
	}

	tokens := p.tokenizer.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		id, ok := p.symbols.Lookup(tok.Value)
		if !ok {
			id = -1
		}
		ids[i] = id
	}

	candidates := p.findCandidates(ids)
	if len(candidates) == 0 {
		return nil, nil
	}
	return p.resolve(query, tokens, candidates, maxAlternatives)
}

// findCandidates walks the query once and returns every closed match that
// reaches the threshold.
//
// An entity may have several open matches at once when it repeats a token:
// "la la land" against "la la la land" must keep both the match that grew
// onto the second "la" and the one seeded on the third.
func (p *Parser) findCandidates(ids []int) []match {
	var candidates []match

	// active holds the open matches that consumed the previous query token.
	var active []*match

	for q, id := range ids {
		if id < 0 {
			candidates = p.keepAllValid(candidates, active)
			active = nil
			continue
		}
		next := make([]*match, 0, len(active))

		for _, m := range active {
			pos := nextPosition(p.entities[m.rank], m.lastEntity, id)
			if pos < 0 {
				candidates = p.keepIfValid(candidates, m)
				continue
			}
			m.lastQuery = q
			m.lastEntity = pos
			m.consumed++
			next = append(next, m)
		}

		var seeds []index.Occurrence
		if p.stops.IsStop(id) {
			seeds = p.index.StopOnlyBucket(id)
		} else {
			seeds = p.index.Bucket(id)
		}

		prev := -1
		for _, occ := range seeds {
			// Only the first occurrence of the token in an entity seeds it.
			if occ.Rank == prev {
				continue
			}
			prev = occ.Rank
			m := &match{
				rank:        occ.Rank,
				firstQuery:  q,
				lastQuery:   q,
				firstEntity: occ.Position,
				lastEntity:  occ.Position,
				consumed:    1,
			}
			p.backtrack(m, ids)
			next = append(next, m)
		}

		active = prune(next)
	}

	return p.keepAllValid(candidates, active)
}

// prune drops open matches dominated by another open match of the same
// entity: one that sits at the same or an earlier entity position and has
// consumed at least as many tokens. Open matches all end on the current
// query token and consume every token of their window, so the dominating
// match covers the dominated window and can grow wherever it can.
func prune(active []*match) []*match {
	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.lastEntity != b.lastEntity {
			return a.lastEntity < b.lastEntity
		}
		return a.consumed > b.consumed
	})

	kept := active[:0]
	rank, best := -1, 0
	for _, m := range active {
		if m.rank != rank {
			rank, best = m.rank, 0
		}
		if m.consumed <= best {
			continue
		}
		best = m.consumed
		kept = append(kept, m)
	}
	return kept
}

// backtrack extends a freshly seeded match to the left over the stop words
// immediately preceding it, as long as they appear earlier in the entity.
// Stop words cannot seed a match, so without this "the stones" would only
// match "stones" when "the" is a stop word.
func (p *Parser) backtrack(m *match, ids []int) {
	entity := p.entities[m.rank]
	for q := m.firstQuery - 1; q >= 0; q-- {
		id := ids[q]
		if id < 0 || !p.stops.IsStop(id) {
			return
		}
		pos := prevPosition(entity, m.firstEntity, id)
		if pos < 0 {
			return
		}
		m.firstQuery = q
		m.firstEntity = pos
		m.consumed++
	}
}

// keepIfValid appends m to candidates when it reaches the threshold. The
// ratio denominator is the full token count of the entity, stop words
// included.
func (p *Parser) keepIfValid(candidates []match, m *match) []match {
	total := len(p.entities[m.rank])
	if total == 0 {
		return candidates
	}
	if float64(m.consumed)/float64(total) >= p.threshold {
		candidates = append(candidates, *m)
	}
	return candidates
}

func (p *Parser) keepAllValid(candidates []match, open []*match) []match {
	for _, m := range open {
		candidates = p.keepIfValid(candidates, m)
	}
	return candidates
}

// resolve picks non-overlapping matches, best first, and turns them into
// parsed values ordered by position.
func (p *Parser) resolve(query string, tokens []ingest.Token, candidates []match, maxAlternatives int) ([]ParsedValue, error) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.consumed != b.consumed {
			return a.consumed > b.consumed
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.firstQuery != b.firstQuery {
			return a.firstQuery < b.firstQuery
		}
		return a.lastQuery < b.lastQuery
	})

	taken := make([]bool, len(tokens))
	used := make([]bool, len(candidates))
	var parsed []ParsedValue

	for i, c := range candidates {
		if used[i] || overlaps(taken, c) {
			continue
		}
		for q := c.firstQuery; q <= c.lastQuery; q++ {
			taken[q] = true
		}

		winner := p.resolvedValue(c.rank)
		var alternatives []ResolvedValue
		for j := i + 1; j < len(candidates); j++ {
			alt := candidates[j]
			if alt.consumed != c.consumed {
				break
			}
			if used[j] || alt.firstQuery != c.firstQuery || alt.lastQuery != c.lastQuery {
				continue
			}
			used[j] = true
			rv := p.resolvedValue(alt.rank)
			// Duplicate raw values that resolve differently stay: the
			// mention is ambiguous.
			if rv == winner || containsResolved(alternatives, rv) {
				continue
			}
			alternatives = append(alternatives, rv)
		}
		if len(alternatives) > maxAlternatives {
			alternatives = alternatives[:maxAlternatives]
		}
		if len(alternatives) == 0 {
			alternatives = nil
		}

		start, end := tokens[c.firstQuery].Start, tokens[c.lastQuery].End
		if start < 0 || end > len(query) || start >= end {
			return nil, fmt.Errorf("%w: range [%d,%d) outside query of length %d", ErrQuery, start, end, len(query))
		}

		parsed = append(parsed, ParsedValue{
			MatchedValue:  query[start:end],
			ResolvedValue: winner,
			Alternatives:  alternatives,
			Range:         Range{Start: start, End: end},
		})
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].Range.Start < parsed[j].Range.Start
	})
	return parsed, nil
}

func (p *Parser) resolvedValue(rank int) ResolvedValue {
	v := p.values[rank]
	return ResolvedValue{Resolved: v.ResolvedValue, RawValue: v.RawValue}
}

// nextPosition returns the first position after `after` holding id, or -1.
func nextPosition(entity []int, after, id int) int {
	for pos := after + 1; pos < len(entity); pos++ {
		if entity[pos] == id {
			return pos
		}
	}
	return -1
}

// prevPosition returns the last position before `before` holding id, or -1.
func prevPosition(entity []int, before, id int) int {
	for pos := before - 1; pos >= 0; pos-- {
		if entity[pos] == id {
			return pos
		}
	}
	return -1
}

func overlaps(taken []bool, m match) bool {
	for q := m.firstQuery; q <= m.lastQuery; q++ {
		if taken[q] {
			return true
		}
	}
	return false
}

func containsResolved(values []ResolvedValue, v ResolvedValue) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
