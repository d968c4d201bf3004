package concurrency

import (
	"context"
	"fmt"
	"sync"
)

// ParallelOptions configures parallel processing
type ParallelOptions struct {
	// MaxWorkers is the maximum number of concurrent workers
	MaxWorkers int
}

// DefaultOptions returns the default parallel options
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

type indexedResult[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel runs itemFunc for every item on a bounded worker pool and
// returns results in input order. A failing item never stops the others;
// each failure is returned in errs, and a panicking item is reported as a
// failure. Items not started before ctx is done are
// reported with ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	jobs := make(chan int, len(items))
	results := make(chan indexedResult[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				if err := ctx.Err(); err != nil {
					results <- indexedResult[R]{index: jobIndex, err: err}
					continue
				}
				result, err := runItem(ctx, jobIndex, items[jobIndex], itemFunc)
				results <- indexedResult[R]{index: jobIndex, result: result, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		resultList[res.index] = res.result
	}

	return resultList, errs
}

// runItem converts a panic in itemFunc into an error for that item
func runItem[T any, R any](
	ctx context.Context,
	index int,
	item T,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			result = zero
			err = fmt.Errorf("item %d panicked: %v", index, r)
		}
	}()
	return itemFunc(ctx, index, item)
}
