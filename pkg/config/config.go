// Package config handles loading and validating mlaudit configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

// Config is the top-level configuration for an audit run.
type Config struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ScoringConfig controls the metric engine.
type ScoringConfig struct {
	// Weights maps metric keys to relative weights. Every registered metric
	// must appear; the aggregate is normalized so the sum is free.
	Weights map[string]float64 `yaml:"weights"`
	// TimeoutSeconds is the default per-metric budget.
	TimeoutSeconds int `yaml:"timeout"`
	// MetricTimeouts overrides the budget per metric key, in seconds.
	MetricTimeouts map[string]int `yaml:"metric_timeouts"`
	// CeilingMode derives the global evaluation ceiling: "max" or "sum".
	CeilingMode string `yaml:"ceiling_mode"`
}

// PipelineConfig controls artifact-level parallelism.
type PipelineConfig struct {
	// Workers bounds how many artifacts are evaluated concurrently.
	Workers int `yaml:"workers"`
	// OrderedOutput emits records in input order. On by default.
	OrderedOutput *bool `yaml:"ordered_output"`
}

// DefaultConfig returns a Config with the standard weights and budgets.
func DefaultConfig() *Config {
	ordered := true
	return &Config{
		Scoring: ScoringConfig{
			Weights:        metrics.DefaultWeights(),
			TimeoutSeconds: 30,
			CeilingMode:    string(metrics.CeilingMax),
		},
		Pipeline: PipelineConfig{
			Workers:       4,
			OrderedOutput: &ordered,
		},
	}
}

// Load reads a config file from the given path. A missing file yields the
// default config; a malformed one is an error. A weights block in the file
// replaces the defaults outright, so an incomplete vector surfaces as a
// configuration error at validation instead of being silently merged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Scoring.Weights) == 0 {
		cfg.Scoring.Weights = metrics.DefaultWeights()
	}
	if cfg.Scoring.TimeoutSeconds <= 0 {
		cfg.Scoring.TimeoutSeconds = 30
	}
	if cfg.Scoring.CeilingMode == "" {
		cfg.Scoring.CeilingMode = string(metrics.CeilingMax)
	}
	if cfg.Pipeline.Workers <= 0 {
		cfg.Pipeline.Workers = 4
	}
	return &cfg, nil
}

// FindConfigFile looks for .mlaudit/config.yaml in the given directory and
// its parents, returning the path if found, or "".
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".mlaudit", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Timeout returns the default per-metric budget as a duration.
func (s ScoringConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return metrics.DefaultTimeout
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// TimeoutOverrides returns the per-metric budget overrides as durations.
func (s ScoringConfig) TimeoutOverrides() map[string]time.Duration {
	if len(s.MetricTimeouts) == 0 {
		return nil
	}
	out := make(map[string]time.Duration, len(s.MetricTimeouts))
	for key, secs := range s.MetricTimeouts {
		out[key] = time.Duration(secs) * time.Second
	}
	return out
}

// Ordered reports whether output records must match input order.
func (p PipelineConfig) Ordered() bool {
	return p.OrderedOutput == nil || *p.OrderedOutput
}

var (
	classicPAT     = regexp.MustCompile(`^gh[pousr]_[A-Za-z0-9]{20,}$`)
	fineGrainedPAT = regexp.MustCompile(`^github_pat_[A-Za-z0-9_]{20,}$`)
)

// ValidateEnvironment checks startup preconditions. A GITHUB_TOKEN that is
// set but does not look like a personal access token is fatal; an unset
// token is allowed (unauthenticated API access, lower rate limits).
func ValidateEnvironment() error {
	token, set := os.LookupEnv("GITHUB_TOKEN")
	if !set {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" || (!classicPAT.MatchString(token) && !fineGrainedPAT.MatchString(token)) {
		return fmt.Errorf("invalid GITHUB_TOKEN format")
	}
	return nil
}
