package metrics

import (
	"strings"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// RampUpMetric scores how quickly an engineer can get started with a model,
// based on four documentation criteria plus a bonus for shipped examples.
type RampUpMetric struct{}

func (m *RampUpMetric) Key() string  { return "ramp_up_time" }
func (m *RampUpMetric) Name() string { return "Ramp-up time" }

var installIndicators = []string{
	"install", "pip install", "conda install", "npm install", "yarn install",
	"setup", "installation", "getting started", "requirements", "dependencies",
}

var trainingIndicators = []string{
	"training", "train", "fine-tuning", "fine tuning", "finetune",
	"evaluation", "eval", "benchmark", "test", "validate",
}

var usageIndicators = []string{
	"usage", "example", "how to use", "quickstart", "tutorial",
	"from transformers", "import", "model.", "pipeline",
	"```python", "```py", "api", "inference",
}

func (m *RampUpMetric) Compute(data *artifact.Data) (Score, error) {
	if data.Model == nil || data.Model.Readme == "" {
		return Score{Value: 0.1}, nil
	}
	readme := strings.ToLower(data.Model.Readme)

	// Four criteria at 0.25 each: README present, install instructions,
	// training/evaluation examples, API usage examples.
	score := 0.25
	if containsAny(readme, installIndicators) {
		score += 0.25
	}
	if containsAny(readme, trainingIndicators) {
		score += 0.25
	}
	if containsAny(readme, usageIndicators) {
		score += 0.25
	}

	if hasExampleFiles(data.Model.Files) {
		score += 0.1
	}

	return Score{Value: clamp01(score)}, nil
}

func hasExampleFiles(files []artifact.FileEntry) bool {
	for _, f := range files {
		lower := strings.ToLower(f.Path)
		if strings.Contains(lower, "example") ||
			strings.Contains(lower, "tutorial") ||
			strings.Contains(lower, "notebook") ||
			strings.HasSuffix(lower, ".ipynb") {
			return true
		}
	}
	return false
}

func containsAny(text string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}
