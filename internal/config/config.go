// Package config loads parley configuration, resolves data paths and reads
// the endpoints file consumed by the plugin hooks.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultEndpointsFile is used when neither flags nor config name one.
const DefaultEndpointsFile = "endpoints.yml"

// Config is the root configuration.
type Config struct {
	Endpoints string          `yaml:"endpoints,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// TelemetryConfig controls the built-in OpenTelemetry tracer.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled,omitempty"`
	Exporter     string  `yaml:"exporter,omitempty"` // "none" | "stdout" | "otlp"
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty"`
	SampleRate   float64 `yaml:"sampleRate,omitempty"`
	ServiceName  string  `yaml:"serviceName,omitempty"`
}

// Defaults returns a Config with defaults applied.
func Defaults() Config {
	return Config{
		Endpoints: DefaultEndpointsFile,
		Logging:   LoggingConfig{Level: "warn"},
		Telemetry: TelemetryConfig{
			Exporter:     "none",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "parley",
		},
	}
}
