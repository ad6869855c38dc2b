package simple

import (
	"github.com/bububa/trip-agents/components/systemprompt"
)

// Generator renders a fixed instruction followed by its context providers.
// It is cheap to build, so a new one can be created for every request.
type Generator struct {
	systemprompt.BaseGenerator
	content string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(content string, options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	ret.content = content
	return ret
}

func (g *Generator) Generate() string {
	promptParts := make([]string, 0, len(g.ContextProviders())*3+2)
	promptParts = append(promptParts, g.content, "")
	return systemprompt.Join(g.AppendContext(promptParts))
}
