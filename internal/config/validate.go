package config

import (
	"fmt"
	"slices"

	"github.com/soyeahso/parley/internal/logging"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Logging.Level != "" && !slices.Contains(logging.Levels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", logging.Levels, cfg.Logging.Level),
		})
	}

	exporters := []string{"none", "stdout", "otlp"}
	if cfg.Telemetry.Exporter != "" && !slices.Contains(exporters, cfg.Telemetry.Exporter) {
		issues = append(issues, ValidationIssue{
			Path:    "telemetry.exporter",
			Message: fmt.Sprintf("must be one of %v, got %q", exporters, cfg.Telemetry.Exporter),
		})
	}

	if cfg.Telemetry.SampleRate < 0 || cfg.Telemetry.SampleRate > 1 {
		issues = append(issues, ValidationIssue{
			Path:    "telemetry.sampleRate",
			Message: fmt.Sprintf("must be between 0 and 1, got %v", cfg.Telemetry.SampleRate),
		})
	}

	return issues
}
