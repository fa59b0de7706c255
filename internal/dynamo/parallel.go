package dynamo

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Build creates a fresh system and its metrics for one ensemble member.
type Build func(seed int64) (System, []Metric, error)

type Ensemble struct {
	build     Build
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build Build, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of members running at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run simulates every member and returns the results in seed order. The first
// error cancels the remaining members.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			sys, metrics, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			s := New(sys)
			for _, m := range metrics {
				s.AddMetric(m)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFor executes a function in parallel over a range [0, n)
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	numWorkers := runtime.GOMAXPROCS(0)
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
