package seasonality

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ComputeBatch runs the pipeline once per instrument. Runs are
// independent pure functions over their own series, so they fan out
// across a bounded errgroup with no coordination beyond collecting
// results. maxConcurrency values below one fall back to serial.
func (p *Pipeline) ComputeBatch(ctx context.Context, series map[string][]Bar, maxConcurrency int) (map[string]Result, error) {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	var mu sync.Mutex
	results := make(map[string]Result, len(series))

	for symbol, bars := range series {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return fmt.Errorf("batch cancelled before %s: %w", symbol, gctx.Err())
			default:
			}

			res := p.Compute(gctx, bars)

			mu.Lock()
			results[symbol] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
