package metrics

import (
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// Deployment targets for the size sub-scores, with usable memory budgets.
const (
	DeviceRaspberryPi = "raspberry_pi"
	DeviceJetsonNano  = "jetson_nano"
	DeviceDesktopPC   = "desktop_pc"
	DeviceAWSServer   = "aws_server"
)

// SizeMetric scores how readily a model's weights fit common deployment
// hardware. The overall value is the mean of the per-device sub-scores.
type SizeMetric struct {
	// Capacities maps device names to weight-byte budgets.
	Capacities map[string]int64
}

func (m *SizeMetric) Key() string  { return "size_score" }
func (m *SizeMetric) Name() string { return "Size score" }

// DefaultCapacities returns the standard device memory budgets.
func DefaultCapacities() map[string]int64 {
	const gb = int64(1) << 30
	return map[string]int64{
		DeviceRaspberryPi: 1 * gb,
		DeviceJetsonNano:  4 * gb,
		DeviceDesktopPC:   16 * gb,
		DeviceAWSServer:   64 * gb,
	}
}

func (m *SizeMetric) Compute(data *artifact.Data) (Score, error) {
	capacities := m.Capacities
	if len(capacities) == 0 {
		capacities = DefaultCapacities()
	}

	var weightBytes int64
	if data.Model != nil {
		weightBytes = data.Model.WeightBytes()
	}

	sub := make(map[string]float64, len(capacities))
	var sum float64
	for device, capacity := range capacities {
		// Linear falloff: a model at or above capacity scores 0 for the
		// device, an unknown (zero) size scores full marks.
		score := 1.0 - float64(weightBytes)/float64(capacity)
		score = clamp01(score)
		sub[device] = score
		sum += score
	}

	return Score{Value: sum / float64(len(capacities)), Sub: sub}, nil
}
