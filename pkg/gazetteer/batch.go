package gazetteer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunBatch parses queries concurrently on up to workers goroutines and
// returns the results in input order. workers <= 0 uses GOMAXPROCS.
// Cancelling ctx stops scheduling further queries and returns ctx.Err().
func (p *Parser) RunBatch(ctx context.Context, queries []string, maxAlternatives, workers int) ([][]ParsedValue, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]ParsedValue, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, query := range queries {
		if gctx.Err() != nil {
			break
		}
		i, query := i, query
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed, err := p.Run(query, maxAlternatives)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = parsed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
