package metrics

// DefaultFunctions returns the standard set of audit metrics with default
// tuning.
func DefaultFunctions() []Function {
	return []Function{
		&RampUpMetric{},
		&BusFactorMetric{
			HubWeight:       0.6,
			RepoWeight:      0.4,
			MinContributors: 3,
			SoloPenalty:     0.5,
		},
		&PerformanceClaimsMetric{
			TextWeight:  0.7,
			IndexWeight: 0.3,
		},
		&LicenseMetric{
			Compatible:         []string{"apache-2.0", "mit", "bsd-3-clause"},
			RestrictivePenalty: 0.3,
			MissingPenalty:     0.7,
		},
		&SizeMetric{Capacities: DefaultCapacities()},
		&DatasetAndCodeMetric{},
		&DatasetQualityMetric{},
		&CodeQualityMetric{DefaultScore: 0.4},
	}
}

// DefaultWeights returns the default weight vector over the standard metric
// set. The aggregator normalizes, so only the relative values matter.
func DefaultWeights() WeightVector {
	return WeightVector{
		"ramp_up_time":           0.15,
		"bus_factor":             0.15,
		"performance_claims":     0.10,
		"license":                0.20,
		"size_score":             0.10,
		"dataset_and_code_score": 0.10,
		"dataset_quality":        0.10,
		"code_quality":           0.10,
	}
}
