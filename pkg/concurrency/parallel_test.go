package concurrency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, 10, DefaultOptions().MaxWorkers)
}

func TestProcessParallelEmptyInput(t *testing.T) {
	results, errs := ProcessParallel(context.Background(), []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	assert.Empty(t, results)
	assert.Nil(t, errs)
}

func TestProcessParallelKeepsOrder(t *testing.T) {
	input := []int{1, 2, 3, 4, 5}
	results, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 2}, func(ctx context.Context, index int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	})
	assert.Empty(t, errs)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, results)
}

func TestProcessParallelIsolatesFailures(t *testing.T) {
	input := []int{1, 2, 3, 4}
	results, errs := ProcessParallel(context.Background(), input, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		if item%2 == 0 {
			return 0, errors.New("even")
		}
		return item * 10, nil
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, []int{10, 0, 30, 0}, results)
}

func TestProcessParallelRecoversPanics(t *testing.T) {
	items := []int{1, 2, 3, 4}
	results, errs := ProcessParallel(context.Background(), items, ParallelOptions{MaxWorkers: 2}, func(ctx context.Context, index int, item int) (int, error) {
		if item == 3 {
			panic("bad item")
		}
		return item * 10, nil
	})

	assert.Equal(t, []int{10, 20, 0, 40}, results)
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Error(), "item 2 panicked: bad item")
	}
}

func TestProcessParallelCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := ProcessParallel(ctx, []int{1, 2, 3}, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		return item, nil
	})
	assert.Len(t, errs, 3)
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
