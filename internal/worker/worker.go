package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned by Run once Shutdown has been called.
var ErrPoolClosed = errors.New("worker pool is shut down")

// Pool runs CPU-heavy tasks on a bounded set of goroutines and ensures
// graceful shutdown.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewPool creates a pool that runs at most size tasks at once.
func NewPool(size int64, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:    semaphore.NewWeighted(size),
		logger: logger,
	}
}

// Run executes task on a pool goroutine and waits for it. If ctx is done
// first, Run returns ctx.Err() and the task finishes in the background.
func (p *Pool) Run(ctx context.Context, task func() error) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.RUnlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.wg.Done()
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		done <- task()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for running ones, up to timeout.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
	}
}
