package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"creditrisk/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes   int32
	NotFounds   int32
	Unavailable int32
	Errors      int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.NotFounds + r.Unavailable + r.Errors
}

// RunConcurrent executes fn in n goroutines and sorts each outcome by the
// sentinel it wraps.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, notFounds, unavailable, errs atomic.Int32

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			case errors.Is(err, sentinel.ErrUnavailable):
				unavailable.Add(1)
			default:
				errs.Add(1)
			}
		}()
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:   successes.Load(),
		NotFounds:   notFounds.Load(),
		Unavailable: unavailable.Load(),
		Errors:      errs.Load(),
	}
}
