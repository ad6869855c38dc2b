package agents

import (
	"time"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/components/systemprompt"
)

type Option func(c *Config)

func WithClient(clt llm.Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = &temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

// WithTimeout bounds every model call of the agent
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.timeout = timeout
	}
}

func WithTokenCounter(counter components.TokenCounter) Option {
	return func(c *Config) {
		c.tokenCounter = counter
	}
}

// WithMaxContextTokens caps each upstream text the summary agent receives
func WithMaxContextTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxContextTokens = maxTokens
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}
