package cot

import (
	"github.com/bububa/trip-agents/components/systemprompt"
)

const defaultBackground = "You are a helpful travel research assistant."

// contextInstruct is always the last output instruction
const contextInstruct = "Rely on the trip details given as context, never change dates, destination or party size."

// Generator is Chain-of-Thought system prompt generator: who the agent is,
// the steps it works through and how it answers
type Generator struct {
	systemprompt.BaseGenerator
	background      []string
	steps           []string
	outputInstructs []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.background) == 0 {
		ret.background = []string{defaultBackground}
	}
	return ret
}

func (g *Generator) Generate() string {
	instructs := make([]string, 0, len(g.outputInstructs)+1)
	instructs = append(instructs, g.outputInstructs...)
	instructs = append(instructs, contextInstruct)
	promptParts := systemprompt.RenderSections(
		systemprompt.Section{Title: "IDENTITY and PURPOSE", Lines: g.background},
		systemprompt.Section{Title: "INTERNAL ASSISTANT STEPS", Lines: g.steps},
		systemprompt.Section{Title: "OUTPUT INSTRUCTIONS", Lines: instructs},
	)
	return systemprompt.Join(g.AppendContext(promptParts))
}
