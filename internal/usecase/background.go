package usecase

import (
	"context"
	"sync"
	"time"

	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"
)

// BackgroundTasks runs best-effort side effects off the request path. A task
// never sees the caller's cancellation; it gets its own timeout instead. Task
// errors are logged and counted, never returned.
type BackgroundTasks struct {
	timeout time.Duration
	wg      sync.WaitGroup
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewBackgroundTasks creates a task runner with a per-task timeout
func NewBackgroundTasks(timeout time.Duration, logger logger.Logger, metrics *metrics.Metrics) *BackgroundTasks {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackgroundTasks{
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Go starts task in its own goroutine. ctx only contributes its values.
func (b *BackgroundTasks) Go(ctx context.Context, name string, task func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Background task panicked", "task", name, "panic", r)
				b.metrics.SideEffectErrors.WithLabelValues(name).Inc()
			}
		}()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer cancel()

		if err := task(taskCtx); err != nil {
			b.logger.Warn("Background task failed", "task", name, "error", err)
			b.metrics.SideEffectErrors.WithLabelValues(name).Inc()
		}
	}()
}

// Wait blocks until every started task has finished
func (b *BackgroundTasks) Wait() {
	b.wg.Wait()
}

// WaitTimeout waits at most d and reports whether all tasks finished
func (b *BackgroundTasks) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
