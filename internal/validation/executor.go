package validation

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// PoolSize is the number of queries a Pool runs at the same time: one per
// compared store.
const PoolSize = 2

// Task is a unit of work submitted to an Executor.
type Task func(ctx context.Context) error

// Executor runs tasks and returns once all of them have finished.
type Executor interface {
	Run(ctx context.Context, tasks ...Task) error
}

// Pool runs tasks concurrently, bounded by a fixed number of slots. A single
// Pool is shared by every validator of a run.
type Pool struct {
	sem *semaphore.Weighted
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

func (p *Pool) Run(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		if err := p.sem.Acquire(gctx, 1); err != nil {
			g.Wait()
			return err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			return task(gctx)
		})
	}
	return g.Wait()
}

// Inline runs tasks one after another in the calling goroutine.
type Inline struct{}

func (Inline) Run(ctx context.Context, tasks ...Task) error {
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := task(ctx); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Executor = (*Pool)(nil)
	_ Executor = Inline{}
)
