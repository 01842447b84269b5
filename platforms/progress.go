package platforms

import (
	"sync"

	"github.com/mww/league_insights/model"
)

type ProgressFunc func(model.Progress)

// Reporter emits progress with a total known up front. Steps may be reported
// from several goroutines, the emitted current value never goes down.
type Reporter struct {
	mu      sync.Mutex
	fn      ProgressFunc
	current int
	total   int
}

// NewReporter sizes the load for one roster and one transaction fetch per
// week plus setup and processing.
func NewReporter(fn ProgressFunc, currentWeek int) *Reporter {
	return &Reporter{fn: fn, total: 2*max(currentWeek, 0) + 2}
}

func (r *Reporter) Total() int {
	return r.total
}

func (r *Reporter) Step(stage, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current < r.total {
		r.current++
	}
	if r.fn != nil {
		r.fn(model.Progress{Stage: stage, Current: r.current, Total: r.total, Detail: detail})
	}
}

// Done reports completion.
func (r *Reporter) Done(detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = r.total
	if r.fn != nil {
		r.fn(model.Progress{Stage: "done", Current: r.current, Total: r.total, Detail: detail})
	}
}
