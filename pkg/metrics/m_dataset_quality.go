package metrics

import (
	"strings"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// DatasetQualityMetric scores linked datasets on four documentation fields:
// description, size/sample counts, license, and benchmark references, 0.25
// each. Linked datasets are averaged; without any, the model README is
// analyzed as a fallback.
type DatasetQualityMetric struct{}

func (m *DatasetQualityMetric) Key() string  { return "dataset_quality" }
func (m *DatasetQualityMetric) Name() string { return "Dataset quality" }

var sizeIndicators = []string{
	"size", "samples", "examples", "instances", "records", "entries",
	"rows", "datapoints", "mb", "gb", "kb", "million", "thousand",
}

var benchmarkIndicators = []string{
	"benchmark", "evaluation", "baseline", "performance",
	"accuracy", "f1", "bleu", "rouge", "glue", "squad",
}

func (m *DatasetQualityMetric) Compute(data *artifact.Data) (Score, error) {
	if len(data.Datasets) == 0 {
		if data.Model != nil && data.Model.Readme != "" {
			return Score{Value: datasetContentScore(data.Model.Readme, nil)}, nil
		}
		return Score{Value: 0.3}, nil
	}

	var total float64
	var analyzed int
	for _, ds := range data.Datasets {
		if ds.Readme == "" {
			total += 0 // nothing to assess
			analyzed++
			continue
		}
		total += datasetContentScore(ds.Readme, ds.Tags)
		analyzed++
	}
	if analyzed == 0 {
		return Score{Value: 0.3}, nil
	}
	return Score{Value: total / float64(analyzed)}, nil
}

func datasetContentScore(readme string, tags []string) float64 {
	lower := strings.ToLower(readme)
	var score float64

	if strings.Contains(lower, "description") || strings.Contains(lower, "overview") ||
		strings.Contains(lower, "dataset") || len(readme) > 300 {
		score += 0.25
	}

	if containsAny(lower, sizeIndicators) {
		score += 0.25
	}

	licensed := strings.Contains(lower, "license")
	if !licensed {
		for _, tag := range tags {
			if strings.Contains(tag, "license:") {
				licensed = true
				break
			}
		}
	}
	if licensed {
		score += 0.25
	}

	if containsAny(lower, benchmarkIndicators) {
		score += 0.25
	}

	return score
}
