package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// IndexedFunc is run once per index by RunInParallel.
type IndexedFunc func(ctx context.Context, i int) error

// RunInParallel calls f for every index in [0, n) on its own goroutine and waits for all of them.
// The first failure cancels the context passed to the others. Errors other than the resulting
// cancellations are combined; a panic is reported as an error.
func RunInParallel(ctx context.Context, n int, f IndexedFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var bigError error
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		if bigError == nil || !errors.Is(err, context.Canceled) {
			bigError = multierr.Combine(bigError, err)
		}
	}

	helper := func(i int) {
		defer func() {
			if thePanic := recover(); thePanic != nil {
				storeError(fmt.Errorf("got panic running index %d in parallel: %v", i, thePanic))
				cancel()
			}
			wg.Done()
		}()
		if err := f(ctx, i); err != nil {
			storeError(err)
			cancel()
		}
	}

	wg.Add(n)
	for i := 0; i < n; i++ {
		go helper(i)
	}
	wg.Wait()
	return bigError
}
