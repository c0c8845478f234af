package metrics

import (
	"regexp"
	"strings"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// LicenseMetric scores license compatibility and clarity. The license is
// taken from the hub tags first, then parsed from the README.
type LicenseMetric struct {
	Compatible         []string // license identifiers scoring 1.0
	RestrictivePenalty float64  // subtracted for copyleft/commercial terms
	MissingPenalty     float64  // subtracted when no license is declared
}

func (m *LicenseMetric) Key() string  { return "license" }
func (m *LicenseMetric) Name() string { return "License" }

var restrictiveTerms = []string{"gpl", "agpl", "commercial", "proprietary", "all rights reserved"}

func (m *LicenseMetric) Compute(data *artifact.Data) (Score, error) {
	var license string
	if data.Model != nil {
		license = data.Model.LicenseTag()
		if license == "" {
			license = licenseFromReadme(data.Model.Readme)
		}
	}

	if license == "" {
		return Score{Value: clamp01(1.0 - m.MissingPenalty)}, nil
	}

	lower := strings.ToLower(license)
	for _, compatible := range m.Compatible {
		if strings.Contains(lower, compatible) {
			return Score{Value: 1.0}, nil
		}
	}
	for _, term := range restrictiveTerms {
		if strings.Contains(lower, term) {
			return Score{Value: clamp01(1.0 - m.RestrictivePenalty)}, nil
		}
	}

	// Declared but unrecognized.
	return Score{Value: 0.5}, nil
}

var licensePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)##?\s*License\s*\n\s*(.+?)(?:\n##|\n\n|\z)`),
	regexp.MustCompile(`(?i)License:\s*(.+?)(?:\n|\z)`),
	regexp.MustCompile(`(?i)\*\*License\*\*:?\s*(.+?)(?:\n|\z)`),
}

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)

// licenseFromReadme extracts a license declaration from README text, or "".
func licenseFromReadme(readme string) string {
	if readme == "" {
		return ""
	}
	for _, pat := range licensePatterns {
		if match := pat.FindStringSubmatch(readme); match != nil {
			text := strings.TrimSpace(match[1])
			text = markdownLink.ReplaceAllString(text, "$1")
			if len(text) > 200 {
				text = text[:200]
			}
			return text
		}
	}
	return ""
}
