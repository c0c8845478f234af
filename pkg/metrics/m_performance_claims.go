package metrics

import (
	"regexp"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// PerformanceClaimsMetric scores how well a model's performance claims are
// documented: model-card sections and metric keywords in the README, blended
// with the presence of a structured evaluation index.
type PerformanceClaimsMetric struct {
	TextWeight  float64 // share from README analysis
	IndexWeight float64 // share from structured model index presence
}

func (m *PerformanceClaimsMetric) Key() string  { return "performance_claims" }
func (m *PerformanceClaimsMetric) Name() string { return "Performance claims" }

var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(eval(uation)? results?|metrics?)\b`),
	regexp.MustCompile(`(?i)\b(dataset|training data)\b`),
	regexp.MustCompile(`(?i)\b(method|approach|architecture)\b`),
	regexp.MustCompile(`(?i)\b(limitation|bias|risk)\b`),
	regexp.MustCompile(`(?i)\blicen[cs]e\b`),
}

var metricKeyword = regexp.MustCompile(`(?i)\b(accuracy|f1|precision|recall|bleu|rouge|exact match|perplexity)\b`)

func (m *PerformanceClaimsMetric) Compute(data *artifact.Data) (Score, error) {
	var readme string
	var hasIndex bool
	if data.Model != nil {
		readme = data.Model.Readme
		hasIndex = data.Model.HasModelIndex
	}

	textScore := textPresenceScore(readme)
	var indexScore float64
	if hasIndex {
		indexScore = 1.0
	}

	score := m.TextWeight*textScore + m.IndexWeight*indexScore
	return Score{Value: clamp01(score)}, nil
}

// textPresenceScore weighs section presence 0.8 and metric keywords 0.2.
func textPresenceScore(text string) float64 {
	if text == "" {
		return 0
	}
	present := 0
	for _, pat := range sectionPatterns {
		if pat.MatchString(text) {
			present++
		}
	}
	var keyword float64
	if metricKeyword.MatchString(text) {
		keyword = 1.0
	}
	return clamp01(float64(present)/float64(len(sectionPatterns))*0.8 + keyword*0.2)
}
