package config

import (
	"context"
	"log/slog"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/planner"
)

// Family returns the configured model family
func (c *Config) Family() llm.Provider {
	p, _ := llm.ParseProvider(c.Provider.Family)
	return p
}

// PlannerOptions translates the configuration into planner options
func (c *Config) PlannerOptions(logger *slog.Logger) ([]planner.Option, error) {
	policy, err := planner.ParseSummaryPolicy(c.Planner.SummaryPolicy)
	if err != nil {
		return nil, err
	}
	opts := []planner.Option{
		planner.WithLogger(logger),
		planner.WithConcurrency(c.Planner.Concurrency),
		planner.WithSummaryPolicy(policy),
		planner.WithTimeout(c.Planner.Timeout),
		planner.WithCallTimeout(c.Planner.CallTimeout),
		planner.WithMaxContextTokens(c.Planner.MaxContextTokens),
		planner.WithTemperature(float32(c.Provider.Temperature)),
	}
	if c.Provider.Model != "" {
		opts = append(opts, planner.WithModel(c.Provider.Model))
	}
	if c.Provider.MaxTokens > 0 {
		opts = append(opts, planner.WithMaxTokens(c.Provider.MaxTokens))
	}
	if c.Provider.BaseURL != "" {
		opts = append(opts, planner.WithBaseURL(c.Provider.BaseURL))
	}
	if c.Provider.SkipVerify {
		opts = append(opts, planner.WithSkipVerify())
	}
	if c.Planner.TokenEncoding != "" {
		counter, err := components.NewTikTokenCounter(c.Planner.TokenEncoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, planner.WithTokenCounter(counter))
	}
	return opts, nil
}

// NewOrchestrator builds the orchestrator described by the configuration
func (c *Config) NewOrchestrator(ctx context.Context, logger *slog.Logger) (*planner.Orchestrator, error) {
	opts, err := c.PlannerOptions(logger)
	if err != nil {
		return nil, err
	}
	return planner.New(ctx, c.Provider.APIKey, c.Family(), opts...)
}
