package crispe

import "github.com/bububa/trip-agents/components/systemprompt"

type Option = func(g *Generator)

// WithCapacities appends the role the agent plays
func WithCapacities(lines ...string) Option {
	return func(g *Generator) {
		g.capacities = append(g.capacities, lines...)
	}
}

// WithInsights appends background knowledge the agent works from
func WithInsights(lines ...string) Option {
	return func(g *Generator) {
		g.insights = append(g.insights, lines...)
	}
}

// WithStatements appends the task statements
func WithStatements(lines ...string) Option {
	return func(g *Generator) {
		g.statements = append(g.statements, lines...)
	}
}

// WithPersonalities appends response style instructions
func WithPersonalities(lines ...string) Option {
	return func(g *Generator) {
		g.personalities = append(g.personalities, lines...)
	}
}

func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
