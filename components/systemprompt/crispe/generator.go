package crispe

import (
	"github.com/bububa/trip-agents/components/systemprompt"
)

// Generator is CRISPE system prompt generator.
// Capacity and role, insight, statement, personality; the experiment part is left out,
// an agent answers once.
type Generator struct {
	systemprompt.BaseGenerator
	capacities    []string
	insights      []string
	statements    []string
	personalities []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (g *Generator) Generate() string {
	promptParts := systemprompt.RenderSections(
		systemprompt.Section{Title: "CAPACITY and ROLE", Lines: g.capacities},
		systemprompt.Section{Title: "INSIGHT", Lines: g.insights},
		systemprompt.Section{Title: "STATEMENT and TASK", Lines: g.statements},
		systemprompt.Section{Title: "PERSONALITY and OUTPUT INSTRUCTIONS", Lines: g.personalities},
	)
	return systemprompt.Join(g.AppendContext(promptParts))
}
