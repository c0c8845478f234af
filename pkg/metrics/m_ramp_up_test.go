package metrics_test

import (
	"math"
	"testing"

	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/metrics"
)

func TestRampUpNoReadme(t *testing.T) {
	m := &metrics.RampUpMetric{}
	score, err := m.Compute(&artifact.Data{Model: &artifact.ModelInfo{}})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if score.Value != 0.1 {
		t.Errorf("score = %v, want 0.1 floor", score.Value)
	}
}

func TestRampUpAllCriteria(t *testing.T) {
	readme := `# Model
## Installation
pip install mymodel
## Training
Run train.py to fine-tune.
## Usage
from transformers import pipeline`
	data := &artifact.Data{Model: &artifact.ModelInfo{
		Readme: readme,
		Files:  []artifact.FileEntry{{Path: "notebooks/demo.ipynb"}},
	}}
	score, err := (&metrics.RampUpMetric{}).Compute(data)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// 4 criteria + example bonus, capped at 1.0.
	if score.Value != 1.0 {
		t.Errorf("score = %v, want 1.0", score.Value)
	}
}

func TestRampUpPartialCriteria(t *testing.T) {
	data := &artifact.Data{Model: &artifact.ModelInfo{Readme: "A bare model card with no guidance."}}
	score, err := (&metrics.RampUpMetric{}).Compute(data)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(score.Value-0.25) > 1e-12 {
		t.Errorf("score = %v, want 0.25 for README only", score.Value)
	}
}
