// Package metrics implements the mlaudit scoring engine. It dispatches all
// registered metric computations concurrently against an immutable artifact
// snapshot, isolates per-metric failures, and aggregates the results under a
// configurable weight vector.
package metrics

import (
	"time"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// Failure reasons recorded on a failed Result.
const (
	ReasonTimeout          = "timeout"
	ReasonComputationError = "computation_error"
	ReasonFetchFailed      = "fetch_failed"
)

// Score is the value produced by one metric computation: a number in [0,1]
// plus optional named sub-scores.
type Score struct {
	Value float64            `json:"value"`
	Sub   map[string]float64 `json:"sub,omitempty"`
}

// Function is the interface all scoring metrics implement. Compute must be
// deterministic for identical data and must not retain or mutate it.
type Function interface {
	// Key returns the machine-readable metric identifier, which doubles as
	// the metric's weight key.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// Compute maps the artifact snapshot to a score in [0,1].
	Compute(data *artifact.Data) (Score, error)
}

// Descriptor is the registered identity of a metric.
type Descriptor struct {
	Key     string
	Name    string
	Timeout time.Duration
}

// Result is the output of running one metric against one artifact.
// Produced exactly once per metric per evaluation.
type Result struct {
	Key     string             `json:"key"`
	Score   float64            `json:"score"`
	Sub     map[string]float64 `json:"sub,omitempty"`
	Latency time.Duration      `json:"latency"`
	Failed  bool               `json:"failed,omitempty"`
	Reason  string             `json:"reason,omitempty"`
	Detail  string             `json:"detail,omitempty"`
}

// Record is the terminal per-artifact output: the aggregate score and the
// full per-metric breakdown, preserved even for failed metrics so consumers
// can audit why an aggregate is low.
type Record struct {
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	NetScore        float64       `json:"net_score"`
	NetScoreLatency time.Duration `json:"net_score_latency"`
	Results         []Result      `json:"results"`
	TotalLatency    time.Duration `json:"total_latency"`
}

// Result returns the record's entry for the given metric key, or nil.
func (r *Record) Result(key string) *Result {
	for i := range r.Results {
		if r.Results[i].Key == key {
			return &r.Results[i]
		}
	}
	return nil
}
