package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

type ObservabilityConfig struct {
	ServiceName string         `koanf:"service_name"`
	Environment string         `koanf:"environment"`
	LogLevel    string         `koanf:"log_level" validate:"required"`
	LogFormat   string         `koanf:"log_format" validate:"required,oneof=console json"`
	NewRelic    NewRelicConfig `koanf:"new_relic"`
}

type NewRelicConfig struct {
	Enabled    bool   `koanf:"enabled"`
	LicenseKey string `koanf:"license_key"`
	AppName    string `koanf:"app_name"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Validate checks fields that struct tags cannot express.
func (o *ObservabilityConfig) Validate() error {
	if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid observability.log_level %q: %w", o.LogLevel, err)
	}
	if o.NewRelic.Enabled && o.NewRelic.LicenseKey == "" {
		return fmt.Errorf("observability.new_relic.license_key is required when new relic is enabled")
	}
	return nil
}

// Level returns the parsed log level. Validate must have succeeded.
func (o *ObservabilityConfig) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewRelicAppName falls back to the service name.
func (o *ObservabilityConfig) NewRelicAppName() string {
	if o.NewRelic.AppName != "" {
		return o.NewRelic.AppName
	}
	return o.ServiceName
}
