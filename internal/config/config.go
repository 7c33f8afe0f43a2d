package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names before they are mapped
// to config keys. Nested keys are separated by a double underscore, so
// LOGRELAY_SERVER__PORT sets server.port.
const EnvPrefix = "LOGRELAY_"

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	LLM           LLMConfig            `koanf:"llm" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required"`
}

// LLMConfig configures the remote completion service. APIKey is the single
// process-wide credential; it is required so a misconfigured deployment fails
// at startup instead of on the first request.
type LLMConfig struct {
	APIKey  string        `koanf:"api_key" validate:"required"`
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Model   string        `koanf:"model" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

// Default returns a Config with every optional field filled in. Environment
// values are unmarshalled over it.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:            "8000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		LLM: LLMConfig{
			Model:   "gpt-3.5-turbo",
			Timeout: 60 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads .env (if present) and then the LOGRELAY_ environment into
// the defaults, and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return loadEnv()
}

func loadEnv() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}
	return mainConfig, nil
}

// Validate checks struct tags and the cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Server.WriteTimeout <= c.LLM.Timeout {
		return fmt.Errorf("invalid config: server.write_timeout (%s) must exceed llm.timeout (%s)",
			c.Server.WriteTimeout, c.LLM.Timeout)
	}
	// filled after validation so the service name is never left to the environment
	c.Observability.ServiceName = "logrelay"
	c.Observability.Environment = c.Primary.Env
	return c.Observability.Validate()
}

// IsProduction reports whether the service runs outside development.
func (c *Config) IsProduction() bool {
	return c.Primary.Env != "development" && c.Primary.Env != "test"
}
