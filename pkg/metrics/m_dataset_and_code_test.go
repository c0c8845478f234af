package metrics_test

import (
	"testing"

	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/metrics"
)

func TestDatasetAndCodeScoring(t *testing.T) {
	m := &metrics.DatasetAndCodeMetric{}

	tests := []struct {
		name string
		data *artifact.Data
		want float64
	}{
		{
			name: "both linked",
			data: &artifact.Data{
				Datasets: []*artifact.DatasetInfo{{ID: "squad"}},
				Repos:    []*artifact.RepoInfo{{FullName: "a/b"}},
			},
			want: 1.0,
		},
		{
			name: "dataset only",
			data: &artifact.Data{Datasets: []*artifact.DatasetInfo{{ID: "squad"}}},
			want: 0.5,
		},
		{
			name: "neither",
			data: &artifact.Data{Model: &artifact.ModelInfo{Readme: "nothing relevant"}},
			want: 0.1,
		},
		{
			name: "readme indicators count as links",
			data: &artifact.Data{Model: &artifact.ModelInfo{
				Readme: "Trained on wikitext. Training script: see github.com/acme/train",
			}},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := m.Compute(tt.data)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if score.Value != tt.want {
				t.Errorf("score = %v, want %v", score.Value, tt.want)
			}
		})
	}
}
