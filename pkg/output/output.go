// Package output renders audit records to their terminal representations:
// NDJSON for machine consumers and a colored table for humans.
package output

import (
	"io"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

// Renderer produces formatted output from an audit record.
type Renderer interface {
	// Render writes the formatted record to the writer.
	Render(w io.Writer, rec *metrics.Record) error
}

// GradeFromScore maps an aggregate score to a letter grade.
func GradeFromScore(score float64) string {
	switch {
	case score >= 0.8:
		return "A"
	case score >= 0.6:
		return "B"
	case score >= 0.4:
		return "C"
	case score >= 0.2:
		return "D"
	default:
		return "F"
	}
}
