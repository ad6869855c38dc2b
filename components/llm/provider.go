package llm

import (
	"fmt"
	"strings"
)

// Provider is the AI model family a Client talks to.
// It is orthogonal to the agent kind: every agent can run on every provider.
type Provider string

const (
	ProviderAnthropic Provider = "claude"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderCohere    Provider = "cohere"
)

// Providers lists the supported model families
var Providers = []Provider{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderCohere}

// ParseProvider resolves a model family name. Besides the canonical names it accepts
// the vendor names "anthropic" and "google".
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude", "anthropic":
		return ProviderAnthropic, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "gemini", "google":
		return ProviderGemini, nil
	case "cohere":
		return ProviderCohere, nil
	}
	return "", fmt.Errorf("unknown model family %q", s)
}

// Valid reports whether p is a supported model family
func (p Provider) Valid() bool {
	for _, v := range Providers {
		if v == p {
			return true
		}
	}
	return false
}

// DefaultModel returns the model used when none is configured
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderAnthropic:
		return "claude-3-7-sonnet-latest"
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderGemini:
		return "gemini-1.5-pro"
	case ProviderCohere:
		return "command-r-plus"
	}
	return ""
}

// EnvKey returns the environment variable conventionally holding the API key
func (p Provider) EnvKey() string {
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderCohere:
		return "COHERE_API_KEY"
	}
	return ""
}

// EnvBaseURL returns the environment variable conventionally holding the API base url
func (p Provider) EnvBaseURL() string {
	if key := p.EnvKey(); key != "" {
		return strings.TrimSuffix(key, "_KEY") + "_BASE_URL"
	}
	return ""
}

func (p Provider) String() string {
	return string(p)
}
