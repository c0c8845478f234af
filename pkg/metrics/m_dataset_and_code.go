package metrics

import (
	"strings"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// DatasetAndCodeMetric scores whether a model's training data and example
// code are discoverable: both linked scores 1.0, one 0.5, neither 0.1.
type DatasetAndCodeMetric struct{}

func (m *DatasetAndCodeMetric) Key() string  { return "dataset_and_code_score" }
func (m *DatasetAndCodeMetric) Name() string { return "Dataset and code" }

var datasetIndicators = []string{
	"dataset:", "training data", "train on", "trained on",
	"huggingface.co/datasets/", "dataset link", "data source",
}

var codeIndicators = []string{
	"training script", "train.py", "fine-tune", "finetune",
	"example code", "training code", "github.com/", "colab",
	"jupyter", "notebook", "script", "example:", "tutorial",
}

func (m *DatasetAndCodeMetric) Compute(data *artifact.Data) (Score, error) {
	var readme string
	if data.Model != nil {
		readme = strings.ToLower(data.Model.Readme)
	}

	hasDataset := len(data.Datasets) > 0 ||
		containsAny(readme, datasetIndicators) ||
		(data.Model != nil && data.Model.HasModelIndex)

	hasCode := len(data.Repos) > 0 || containsAny(readme, codeIndicators)
	if !hasCode && data.Model != nil {
		for _, f := range data.Model.Files {
			lower := strings.ToLower(f.Path)
			if strings.HasSuffix(lower, ".py") || strings.HasSuffix(lower, ".ipynb") ||
				strings.Contains(lower, "train") || strings.Contains(lower, "example") {
				hasCode = true
				break
			}
		}
	}

	switch {
	case hasDataset && hasCode:
		return Score{Value: 1.0}, nil
	case hasDataset || hasCode:
		return Score{Value: 0.5}, nil
	default:
		return Score{Value: 0.1}, nil
	}
}
