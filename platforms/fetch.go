package platforms

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/metrics"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const DefaultConcurrency = 4

// WeekFetcher fans per week requests out over a bounded worker pool.
type WeekFetcher struct {
	Platform    string
	Concurrency int
	Logger      *zap.Logger
	Progress    *Reporter
}

// WeekResult is the outcome of fetching one week.
type WeekResult[T any] struct {
	Week  int
	Value T
}

// FetchWeeks calls fn for weeks 1 through lastWeek. A week that fails is
// logged, counted and left out of the result, it never fails the load. The
// result is ordered by week. Only a cancelled context is returned as an
// error.
func FetchWeeks[T any](ctx context.Context, f WeekFetcher, stage string, lastWeek int, fn func(ctx context.Context, week int) (T, error)) ([]WeekResult[T], error) {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := f.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]WeekResult[T], 0, lastWeek)
	)
	for week := 1; week <= lastWeek; week++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			v, err := fn(ctx, week)
			if f.Progress != nil {
				f.Progress.Step(stage, fmt.Sprintf("week %d", week))
			}
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("week fetch failed, skipping",
						zap.String("platform", f.Platform), zap.String("stage", stage), zap.Int("week", week), zap.Error(err))
					metrics.WeekFetchFailures.WithLabelValues(f.Platform, stage).Inc()
				}
				return
			}
			mu.Lock()
			results = append(results, WeekResult[T]{Week: week, Value: v})
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrap(err, "submit week fetch")
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b WeekResult[T]) int { return a.Week - b.Week })
	return results, nil
}
