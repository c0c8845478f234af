package metrics

import (
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// CodeQualityMetric scores the engineering hygiene of the linked code
// repository: test suite, CI configuration, lint configuration, and
// contributor base. Without any repository data it returns a medium default.
type CodeQualityMetric struct {
	DefaultScore float64 // used when no repo could be analyzed
}

func (m *CodeQualityMetric) Key() string  { return "code_quality" }
func (m *CodeQualityMetric) Name() string { return "Code quality" }

func (m *CodeQualityMetric) Compute(data *artifact.Data) (Score, error) {
	if len(data.Repos) == 0 {
		return Score{Value: m.DefaultScore}, nil
	}

	// At most the first two linked repos carry the score; anything past
	// that is noise from over-linked model cards.
	repos := data.Repos[:minInt(2, len(data.Repos))]
	var total float64
	for _, repo := range repos {
		total += repoQualityScore(repo)
	}
	return Score{Value: total / float64(len(repos))}, nil
}

func repoQualityScore(repo *artifact.RepoInfo) float64 {
	var score float64
	if repo.HasTestsDir() {
		score += 0.3
	}
	if repo.HasCIConfig() {
		score += 0.3
	}
	if repo.HasLintConfig() {
		score += 0.2
	}
	if repo.Contributors > 1 {
		score += 0.2
	}
	return clamp01(score)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
