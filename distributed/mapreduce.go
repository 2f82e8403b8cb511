package distributed

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Map runs fn over every element of items, with at most cfg.Workers tasks
// in flight at once, using golang.org/x/sync/errgroup for fan-out and
// golang.org/x/sync/semaphore to bound concurrency (spec §5's worker-pool
// model, generalized from an unbounded goroutine-per-segment fan-out).
//
// Results are returned aligned to items' input order. The first error
// cancels the group's context so unstarted tasks don't begin, but per
// spec §5's cancellation policy ("in-flight worker tasks run to
// completion") already-running tasks are not interrupted; Map still waits
// for them before returning the error.
func Map[T, R any](ctx context.Context, items []T, cfg Config, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	sem := semaphore.NewWeighted(int64(cfg.workers()))
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range items {
		if err := sem.Acquire(gctx, 1); err != nil {
			// Context already cancelled (e.g. a prior task failed); stop
			// launching new work and fall through to collect the error.
			break
		}

		i, item := i, item
		g.Go(func() error {
			defer sem.Release(1)

			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
