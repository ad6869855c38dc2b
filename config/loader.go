package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/planner"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "tripplanner.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	// Provider
	setString(&cfg.Provider.Family, "TRIP_PLANNER_PROVIDER")
	setString(&cfg.Provider.Model, "TRIP_PLANNER_MODEL")
	setFloat64(&cfg.Provider.Temperature, "TRIP_PLANNER_TEMPERATURE")
	setInt(&cfg.Provider.MaxTokens, "TRIP_PLANNER_MAX_TOKENS")
	setBool(&cfg.Provider.SkipVerify, "TRIP_PLANNER_SKIP_VERIFY")
	if family, err := llm.ParseProvider(cfg.Provider.Family); err == nil {
		if cfg.Provider.APIKey == "" {
			setString(&cfg.Provider.APIKey, family.EnvKey())
		}
		if cfg.Provider.BaseURL == "" {
			setString(&cfg.Provider.BaseURL, family.EnvBaseURL())
		}
	}

	// Planner
	setInt(&cfg.Planner.Concurrency, "TRIP_PLANNER_CONCURRENCY")
	setString(&cfg.Planner.SummaryPolicy, "TRIP_PLANNER_SUMMARY_POLICY")
	setDuration(&cfg.Planner.Timeout, "TRIP_PLANNER_TIMEOUT")
	setDuration(&cfg.Planner.CallTimeout, "TRIP_PLANNER_CALL_TIMEOUT")
	setInt(&cfg.Planner.MaxContextTokens, "TRIP_PLANNER_MAX_CONTEXT_TOKENS")
	setString(&cfg.Planner.TokenEncoding, "TRIP_PLANNER_TOKEN_ENCODING")

	// Logging
	setString(&cfg.Log.Level, "TRIP_PLANNER_LOG_LEVEL")
	setString(&cfg.Log.Format, "TRIP_PLANNER_LOG_FORMAT")
	setString(&cfg.Log.Service, "TRIP_PLANNER_LOG_SERVICE")
}

// validate checks that every field holds a usable value.
func validate(cfg *Config) error {
	if _, err := llm.ParseProvider(cfg.Provider.Family); err != nil {
		return fmt.Errorf("provider.family: %w", err)
	}
	if cfg.Provider.Temperature < 0 || cfg.Provider.Temperature > 2 {
		return errors.New("provider.temperature must be within [0, 2]")
	}
	if cfg.Provider.MaxTokens < 0 {
		return errors.New("provider.max_tokens must be >= 0")
	}
	if cfg.Planner.Concurrency < 1 {
		return errors.New("planner.concurrency must be >= 1")
	}
	if _, err := planner.ParseSummaryPolicy(cfg.Planner.SummaryPolicy); err != nil {
		return fmt.Errorf("planner.summary_policy: %w", err)
	}
	if cfg.Planner.Timeout < 0 {
		return errors.New("planner.timeout must be >= 0")
	}
	if cfg.Planner.CallTimeout < 0 {
		return errors.New("planner.call_timeout must be >= 0")
	}
	if cfg.Planner.MaxContextTokens < 0 {
		return errors.New("planner.max_context_tokens must be >= 0")
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
