// Package config loads the application configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"defi-credit-lab/internal/scoring"
)

// Config is the full application configuration.
type Config struct {
	Scoring scoring.Options `yaml:"scoring"`

	// PostgresDSN enables durable transaction and score storage when set.
	PostgresDSN string `yaml:"postgres_dsn"`

	// ClickhouseDSN enables the analytical feature store when set.
	ClickhouseDSN string `yaml:"clickhouse_dsn"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9091".
	MetricsAddr string `yaml:"metrics_addr"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scoring: scoring.DefaultOptions(),
	}
}

// Load reads a YAML config file over the defaults, then applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides file values from the environment. Environment wins over
// the file so deployments can inject credentials without editing config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.ClickhouseDSN = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
}
