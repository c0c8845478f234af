package metrics_test

import (
	"math"
	"testing"
	"time"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

func TestAggregateEqualWeightsIdentity(t *testing.T) {
	// All metrics succeeding with score s under equal weights aggregate to
	// exactly s.
	results := []metrics.Result{
		{Key: "a", Score: 0.6},
		{Key: "b", Score: 0.6},
		{Key: "c", Score: 0.6},
	}
	agg := nopAggregator(metrics.WeightVector{"a": 1, "b": 1, "c": 1})

	rec, err := agg.Aggregate("m", results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rec.NetScore != 0.6 {
		t.Errorf("net score = %v, want exactly 0.6", rec.NetScore)
	}
}

func TestAggregateSingleFailurePenalizes(t *testing.T) {
	// One failed metric (weight w) among successes scoring 1:
	// aggregate = Σw_i / (Σw_i + w).
	results := []metrics.Result{
		{Key: "a", Score: 1},
		{Key: "b", Score: 1},
		{Key: "c", Failed: true, Reason: metrics.ReasonTimeout},
	}
	agg := nopAggregator(metrics.WeightVector{"a": 2, "b": 3, "c": 5})

	rec, err := agg.Aggregate("m", results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := 5.0 / 10.0
	if math.Abs(rec.NetScore-want) > 1e-12 {
		t.Errorf("net score = %v, want %v", rec.NetScore, want)
	}
}

func TestAggregateSevenOfEightTimeout(t *testing.T) {
	// 8 metrics, all weight 1, 7 return 0.8, 1 times out: aggregate 0.7.
	weights := metrics.WeightVector{}
	var results []metrics.Result
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, key := range keys {
		weights[key] = 1
		r := metrics.Result{Key: key, Score: 0.8}
		if i == len(keys)-1 {
			r = metrics.Result{Key: key, Failed: true, Reason: metrics.ReasonTimeout}
		}
		results = append(results, r)
	}

	rec, err := nopAggregator(weights).Aggregate("m", results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if math.Abs(rec.NetScore-0.7) > 1e-12 {
		t.Errorf("net score = %v, want 0.7", rec.NetScore)
	}
}

func TestAggregateMissingWeightIsConfigError(t *testing.T) {
	results := []metrics.Result{{Key: "a", Score: 1}, {Key: "b", Score: 1}}
	agg := nopAggregator(metrics.WeightVector{"a": 1})

	_, err := agg.Aggregate("m", results)
	if err == nil {
		t.Fatal("expected error for unweighted metric")
	}
	if !metrics.IsConfigError(err) {
		t.Errorf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestAggregateZeroTotalWeight(t *testing.T) {
	results := []metrics.Result{{Key: "a", Score: 1}}
	rec, err := nopAggregator(metrics.WeightVector{"a": 0}).Aggregate("m", results)
	if err != nil {
		t.Fatalf("zero total weight must not be fatal: %v", err)
	}
	if rec.NetScore != 0 {
		t.Errorf("net score = %v, want 0", rec.NetScore)
	}
}

func TestAggregateClampsOutOfRangeScores(t *testing.T) {
	results := []metrics.Result{
		{Key: "hot", Score: 1.7},
		{Key: "cold", Score: -0.4},
	}
	rec, err := nopAggregator(metrics.WeightVector{"hot": 1, "cold": 1}).Aggregate("m", results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := rec.Result("hot").Score; got != 1 {
		t.Errorf("hot clamped to %v, want 1", got)
	}
	if got := rec.Result("cold").Score; got != 0 {
		t.Errorf("cold clamped to %v, want 0", got)
	}
	if rec.NetScore != 0.5 {
		t.Errorf("net score = %v, want 0.5", rec.NetScore)
	}
}

func TestAggregatePreservesBreakdown(t *testing.T) {
	results := []metrics.Result{
		{Key: "ok", Score: 0.9, Latency: 5 * time.Millisecond},
		{Key: "bad", Failed: true, Reason: metrics.ReasonComputationError, Detail: "boom"},
	}
	rec, err := nopAggregator(metrics.WeightVector{"ok": 1, "bad": 1}).Aggregate("m", results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rec.Results) != 2 {
		t.Fatalf("breakdown lost entries: %d", len(rec.Results))
	}
	bad := rec.Result("bad")
	if bad == nil || !bad.Failed || bad.Detail != "boom" {
		t.Errorf("failed metric not preserved in breakdown: %+v", bad)
	}
	if rec.Category != "MODEL" {
		t.Errorf("category = %s", rec.Category)
	}
}

func TestWeightVectorValidate(t *testing.T) {
	reg := newRegistry(t, time.Second, &stubMetric{key: "a"}, &stubMetric{key: "b"})

	if err := (metrics.WeightVector{"a": 1, "b": 0}).Validate(reg); err != nil {
		t.Errorf("complete vector should validate: %v", err)
	}

	err := metrics.WeightVector{"a": 1}.Validate(reg)
	if err == nil || !metrics.IsConfigError(err) {
		t.Errorf("missing entry must be a ConfigError, got %v", err)
	}

	err = metrics.WeightVector{"a": 1, "b": -2}.Validate(reg)
	if err == nil || !metrics.IsConfigError(err) {
		t.Errorf("negative weight must be a ConfigError, got %v", err)
	}

	err = metrics.WeightVector{}.Validate(reg)
	if err == nil || !metrics.IsConfigError(err) {
		t.Errorf("empty vector must be a ConfigError, got %v", err)
	}
}
