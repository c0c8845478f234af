package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// RunMetric invokes one metric function with timing, timeout enforcement, and
// failure isolation. Any error or panic inside the function is converted to a
// failed Result; nothing propagates to sibling metrics. The elapsed time is
// recorded whatever the outcome.
func RunMetric(ctx context.Context, desc Descriptor, fn Function, data *artifact.Data) Result {
	start := time.Now()

	type outcome struct {
		score Score
		err   error
	}
	done := make(chan outcome, 1)

	// The computation runs in its own goroutine so a stuck metric cannot
	// hold up the scheduler past its budget. Cancellation is best-effort:
	// the goroutine is abandoned, its eventual result discarded.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		score, err := fn.Compute(data)
		done <- outcome{score: score, err: err}
	}()

	timer := time.NewTimer(desc.Timeout)
	defer timer.Stop()

	result := Result{Key: desc.Key}
	select {
	case out := <-done:
		if out.err != nil {
			result.Failed = true
			result.Reason = ReasonComputationError
			result.Detail = out.err.Error()
		} else {
			result.Score = out.score.Value
			result.Sub = out.score.Sub
		}
	case <-timer.C:
		result.Failed = true
		result.Reason = ReasonTimeout
		result.Detail = fmt.Sprintf("exceeded %s budget", desc.Timeout)
	case <-ctx.Done():
		result.Failed = true
		result.Reason = ReasonTimeout
		result.Detail = "evaluation ceiling reached"
	}

	result.Latency = time.Since(start)
	return result
}
