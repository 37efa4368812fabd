// Package config loads the front-end configuration from an optional
// YAML file with environment-variable overrides. A missing file is not
// an error; every field has a usable default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the front-end configuration.
type AppConfig struct {
	// ServiceURL is the base URL of the move-validation service.
	ServiceURL string `yaml:"service_url"`
	// RequestTimeout bounds each protocol round-trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RetryMax caps the attempts for refresh and reset calls.
	RetryMax int `yaml:"retry_max"`
	// Flipped starts the board from black's point of view.
	Flipped bool `yaml:"flipped"`
}

const defaultConfigPath = "boardcore.yaml"

func defaults() *AppConfig {
	return &AppConfig{
		ServiceURL:     "http://127.0.0.1:8000",
		RequestTimeout: 10 * time.Second,
		RetryMax:       3,
	}
}

// Load reads the YAML file named by BOARDCORE_CONFIG (or boardcore.yaml
// in the working directory), then applies environment overrides on top.
func Load() (*AppConfig, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("BOARDCORE_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No file is fine; defaults plus env carry the day.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("service_url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults().RequestTimeout
	}
	if cfg.RetryMax < 1 {
		cfg.RetryMax = 1
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("BOARDCORE_SERVICE_URL")); v != "" {
		cfg.ServiceURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDCORE_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARDCORE_RETRY_MAX")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetryMax = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARDCORE_FLIPPED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Flipped = b
		}
	}
}
