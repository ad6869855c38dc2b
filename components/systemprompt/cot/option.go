package cot

import "github.com/bububa/trip-agents/components/systemprompt"

type Option = func(g *Generator)

// WithBackground appends lines describing the agent identity
func WithBackground(lines ...string) Option {
	return func(g *Generator) {
		g.background = append(g.background, lines...)
	}
}

// WithSteps appends reasoning steps
func WithSteps(steps ...string) Option {
	return func(g *Generator) {
		g.steps = append(g.steps, steps...)
	}
}

// WithOutputInstructs appends output instructions
func WithOutputInstructs(instructs ...string) Option {
	return func(g *Generator) {
		g.outputInstructs = append(g.outputInstructs, instructs...)
	}
}

func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
