package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// CeilingMode selects how the scheduler's global wall-clock ceiling is
// derived from the per-metric budgets.
type CeilingMode string

const (
	// CeilingMax bounds the evaluation by the largest metric budget.
	// All metrics run concurrently, so this is the default.
	CeilingMax CeilingMode = "max"
	// CeilingSum bounds the evaluation by the sum of metric budgets.
	CeilingSum CeilingMode = "sum"
)

// Scheduler launches one concurrent computation per registered metric against
// the same artifact snapshot and collects every result. Metrics are mutually
// independent: no metric waits on another, and no failure crosses between
// them.
type Scheduler struct {
	registry *Registry
	ceiling  time.Duration
}

// NewScheduler creates a scheduler over the given registry. An unknown mode
// falls back to CeilingMax.
func NewScheduler(registry *Registry, mode CeilingMode) *Scheduler {
	var ceiling time.Duration
	for _, d := range registry.Descriptors() {
		switch mode {
		case CeilingSum:
			ceiling += d.Timeout
		default:
			if d.Timeout > ceiling {
				ceiling = d.Timeout
			}
		}
	}
	return &Scheduler{registry: registry, ceiling: ceiling}
}

// Ceiling returns the global wall-clock budget for one evaluation.
func (s *Scheduler) Ceiling() time.Duration { return s.ceiling }

// Evaluate runs every registered metric against data and returns exactly one
// Result per descriptor, in registration order. It returns only once every
// metric has produced a result; metrics still pending when the global ceiling
// expires are force-marked failed with the timeout reason.
func (s *Scheduler) Evaluate(ctx context.Context, data *artifact.Data) []Result {
	ctx, cancel := context.WithTimeout(ctx, s.ceiling)
	defer cancel()

	descs := s.registry.Descriptors()
	results := make([]Result, len(descs))

	var wg sync.WaitGroup
	for i, desc := range descs {
		wg.Add(1)
		go func(i int, desc Descriptor) {
			defer wg.Done()
			results[i] = RunMetric(ctx, desc, s.registry.Function(desc.Key), data)
		}(i, desc)
	}
	wg.Wait()

	return results
}
