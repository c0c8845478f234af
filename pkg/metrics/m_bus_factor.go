package metrics

import (
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// BusFactorMetric scores contributor diversity and project sustainability.
// It blends hub community engagement with contributor counts from the linked
// code repository.
type BusFactorMetric struct {
	HubWeight       float64 // share of the score from hub engagement
	RepoWeight      float64 // share from repo contributor analysis
	MinContributors int     // contributor count for a healthy repo score
	SoloPenalty     float64 // score for a single-contributor repo
}

func (m *BusFactorMetric) Key() string  { return "bus_factor" }
func (m *BusFactorMetric) Name() string { return "Bus factor" }

func (m *BusFactorMetric) Compute(data *artifact.Data) (Score, error) {
	hubWeight, repoWeight := m.HubWeight, m.RepoWeight

	var total float64
	if data.Model != nil {
		total += m.hubEngagement(data.Model) * hubWeight
	} else {
		// Without hub data the repo carries the whole score.
		repoWeight = 1.0
	}

	var repoScore float64
	for _, repo := range data.Repos {
		switch authors := repo.Contributors; {
		case authors >= m.MinContributors:
			repoScore = 0.8
		case authors == 2:
			repoScore = 0.6
		case authors == 1:
			repoScore = m.SoloPenalty
		default:
			repoScore = 0.1
		}
		break // first repo with data
	}
	total += repoScore * repoWeight

	return Score{Value: clamp01(total)}, nil
}

// hubEngagement scores community engagement from downloads, likes, and
// recency, capped at 0.8 so hub data alone never yields a perfect score.
func (m *BusFactorMetric) hubEngagement(model *artifact.ModelInfo) float64 {
	var score float64

	switch {
	case model.Downloads > 10000:
		score += 0.4
	case model.Downloads > 1000:
		score += 0.3
	case model.Downloads > 100:
		score += 0.2
	case model.Downloads > 10:
		score += 0.1
	}

	switch {
	case model.Likes > 100:
		score += 0.3
	case model.Likes > 50:
		score += 0.2
	case model.Likes > 10:
		score += 0.1
	case model.Likes > 0:
		score += 0.05
	}

	if !model.LastModified.IsZero() {
		score += 0.1
	}

	if score > 0.8 {
		score = 0.8
	}
	return score
}
