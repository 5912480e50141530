package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/buyfresh/buyfresh/app/grocery"
)

// FanOut runs fn concurrently over items and collects results into
// index-addressed slots, so the output order always matches the input order.
// A failed call leaves its slot at the zero value; it never cancels the rest
// of the batch.
func FanOut[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []R {
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			result, err := fn(ctx, item)
			if err != nil {
				slog.Warn("Batch entry failed", "index", i, "error", err)
				return
			}
			results[i] = result
		}(i, item)
	}
	wg.Wait()

	return results
}

// SearchBatch fans one free-text search out per query and waits for all of
// them. A single query's failure degrades to an empty candidate list for
// that query only.
func (c *Client) SearchBatch(ctx context.Context, queries []string) [][]grocery.Product {
	results := FanOut(ctx, queries, c.Search)
	for i, products := range results {
		if products == nil {
			results[i] = []grocery.Product{}
		}
	}
	return results
}
