package metrics

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// WeightVector maps metric keys to non-negative relative weights. Weights
// need not sum to 1; the aggregator normalizes.
type WeightVector map[string]float64

// Validate checks the vector against a registry: every registered metric must
// have a non-negative weight entry. Violations are ConfigErrors and abort
// the run before any artifact is processed.
func (w WeightVector) Validate(registry *Registry) error {
	if len(w) == 0 {
		return configErrorf("weight vector is empty")
	}
	var missing []string
	for _, d := range registry.Descriptors() {
		weight, ok := w[d.Key]
		if !ok {
			missing = append(missing, d.Key)
			continue
		}
		if weight < 0 {
			return configErrorf("negative weight %g for metric %q", weight, d.Key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return configErrorf("no weight configured for metrics: %v", missing)
	}
	return nil
}

// Aggregator combines metric results into a Record under a weight vector.
type Aggregator struct {
	weights WeightVector
	log     zerolog.Logger
}

// NewAggregator creates an aggregator. The logger receives aggregation
// warnings (zero total weight, score clamping); pass zerolog.Nop() to
// silence them.
func NewAggregator(weights WeightVector, log zerolog.Logger) *Aggregator {
	return &Aggregator{weights: weights, log: log}
}

// Aggregate computes the weighted score over all results and produces the
// terminal Record. A failed metric contributes score 0 while its weight
// stays in the normalization denominator, so partial failure degrades the
// aggregate instead of being silently excluded. A metric with no weight
// entry is a ConfigError.
func (a *Aggregator) Aggregate(name string, results []Result) (*Record, error) {
	start := time.Now()

	var weightSum, weightedScore float64
	out := make([]Result, len(results))
	copy(out, results)

	for i := range out {
		weight, ok := a.weights[out[i].Key]
		if !ok {
			return nil, configErrorf("no weight configured for metric %q", out[i].Key)
		}
		weightSum += weight
		if out[i].Failed {
			continue
		}
		score := out[i].Score
		if score < 0 || score > 1 {
			a.log.Warn().
				Str("metric", out[i].Key).
				Float64("score", score).
				Msg("score outside [0,1], clamping")
			score = clamp01(score)
			out[i].Score = score
		}
		weightedScore += weight * score
	}

	var net float64
	if weightSum == 0 {
		a.log.Warn().Str("artifact", name).Msg("zero total weight, aggregate defined as 0")
	} else {
		net = weightedScore / weightSum
	}

	return &Record{
		Name:            name,
		Category:        "MODEL",
		NetScore:        net,
		NetScoreLatency: time.Since(start),
		Results:         out,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
