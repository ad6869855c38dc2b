// Package config loads the trip planner configuration and builds the loggers and
// planner options derived from it.
package config

import "time"

// Config is the root configuration
type Config struct {
	Provider Provider `yaml:"provider"`
	Planner  Planner  `yaml:"planner"`
	Log      Logging  `yaml:"log"`
}

// Provider selects the model family and how to reach it
type Provider struct {
	// Family is one of claude, openai, gemini, cohere
	Family string `yaml:"family"`
	// APIKey falls back to the family's conventional env var, e.g. OPENAI_API_KEY
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	// SkipVerify skips the credential handshake at startup
	SkipVerify bool `yaml:"skip_verify"`
}

// Planner tunes a planning run
type Planner struct {
	Concurrency   int    `yaml:"concurrency"`
	SummaryPolicy string `yaml:"summary_policy"`
	// Timeout bounds a whole run, zero means unbounded
	Timeout time.Duration `yaml:"timeout"`
	// CallTimeout bounds each agent call, zero means unbounded
	CallTimeout time.Duration `yaml:"call_timeout"`
	// MaxContextTokens caps each upstream text handed to the summary agent
	MaxContextTokens int `yaml:"max_context_tokens"`
	// TokenEncoding is a tiktoken encoding used to count context tokens, empty counts words
	TokenEncoding string `yaml:"token_encoding"`
}

// Logging holds log settings
type Logging struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Provider: Provider{
			Family:      "openai",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Planner: Planner{
			Concurrency:   3,
			SummaryPolicy: "always",
			Timeout:       5 * time.Minute,
			CallTimeout:   2 * time.Minute,
		},
		Log: Logging{
			Level:   "info",
			Format:  "text",
			Service: "tripplanner",
		},
	}
}
