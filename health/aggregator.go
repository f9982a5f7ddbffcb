package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds one CheckAll pass.
const DefaultCheckTimeout = 10 * time.Second

// Aggregator runs registered checkers and combines their results.
//
// Contract:
//   - Concurrency: safe for concurrent use; CheckAll runs checkers in
//     parallel.
//   - Context: a checker still running at the deadline is reported as
//     unhealthy with ErrCheckTimeout.
type Aggregator struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates an aggregator whose passes are bounded by timeout.
// A non-positive timeout selects DefaultCheckTimeout.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds c under c.Name(), replacing a checker of the same name.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := c.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = c
}

// Names returns registered checker names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.order)
}

// Check runs the named checker.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	c, ok := a.checkers[name]
	a.mu.RUnlock()
	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return runCheck(ctx, c), nil
}

// CheckAll runs every registered checker.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, 0, len(a.order))
	for _, name := range a.order {
		checkers = append(checkers, a.checkers[name])
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([]Result, len(checkers))
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = runCheck(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Result, len(checkers))
	for i, c := range checkers {
		out[c.Name()] = results[i]
	}
	return out
}

// Overall folds results into one status: unhealthy if any is unhealthy,
// degraded if any is degraded, healthy otherwise.
func Overall(results map[string]Result) Status {
	status := StatusHealthy
	for _, r := range results {
		if r.Status > status {
			status = r.Status
		}
	}
	return status
}

func runCheck(ctx context.Context, c Checker) Result {
	start := time.Now()
	ch := make(chan Result, 1)

	go func() {
		r := c.Check(ctx)
		if r.Timestamp.IsZero() {
			r.Timestamp = start
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		r.Duration = time.Since(start)
		return r
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
