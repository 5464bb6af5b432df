package differ

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// chunkExecutor is the strategy interface over "parallel chunked executor"
// and "sequential executor". Both produce index-addressed results so the
// merge step is a fixed scan regardless of completion order.
type chunkExecutor interface {
	name() string
	run(ctx context.Context, job chunkJob, chunks []chunk) ([]chunkResult, error)
}

// sequentialExecutor processes chunks one by one on the calling goroutine.
// It is the fallback path and must stay functionally identical to the
// parallel executor.
type sequentialExecutor struct{}

func (sequentialExecutor) name() string { return "sequential" }

func (sequentialExecutor) run(ctx context.Context, job chunkJob, chunks []chunk) ([]chunkResult, error) {
	results := make([]chunkResult, len(chunks))

	for i, c := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		results[i] = compareChunk(job, c)
	}

	return results, nil
}

// parallelExecutor dispatches chunks to a bounded worker pool. Results land
// in index-addressed slots; a worker panic aborts the run with an error so
// the engine can fall back to the sequential executor.
type parallelExecutor struct {
	workers int
}

// newParallelExecutor creates a parallel executor; workers <= 0 means
// hardware concurrency.
func newParallelExecutor(workers int) *parallelExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &parallelExecutor{workers: workers}
}

func (pe *parallelExecutor) name() string { return "parallel" }

func (pe *parallelExecutor) run(ctx context.Context, job chunkJob, chunks []chunk) ([]chunkResult, error) {
	results := make([]chunkResult, len(chunks))
	pending := make(chan chunk)
	abort := make(chan struct{})

	var abortOnce sync.Once
	var workerErr error
	fail := func(err error) {
		abortOnce.Do(func() {
			workerErr = err
			close(abort)
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < pe.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("chunk worker panic: %v", r))
				}
			}()

			for c := range pending {
				results[c.index] = compareChunk(job, c)
			}
		}()
	}

	var dispatchErr error
dispatch:
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		case <-abort:
			break dispatch
		case pending <- c:
		}
	}
	close(pending)
	wg.Wait()

	if workerErr != nil {
		return nil, workerErr
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}

	return results, nil
}
