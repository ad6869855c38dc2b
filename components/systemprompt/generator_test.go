package systemprompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/trip-agents/components/systemprompt"
	"github.com/bububa/trip-agents/components/systemprompt/cot"
	"github.com/bububa/trip-agents/components/systemprompt/crispe"
	"github.com/bububa/trip-agents/components/systemprompt/simple"
)

func TestCotGenerate(t *testing.T) {
	g := cot.New(
		cot.WithBackground("You find flights."),
		cot.WithSteps("Compare airlines.", "- Check layovers."),
		cot.WithOutputInstructs("Use markdown."),
	)
	expect := `# IDENTITY and PURPOSE
- You find flights.

# INTERNAL ASSISTANT STEPS
- Compare airlines.
- Check layovers.

# OUTPUT INSTRUCTIONS
- Use markdown.
- Rely on the trip details given as context, never change dates, destination or party size.`
	assert.Equal(t, expect, g.Generate())
}

func TestCotDefaultBackground(t *testing.T) {
	out := cot.New().Generate()
	assert.True(t, strings.HasPrefix(out, "# IDENTITY and PURPOSE\n- You are a helpful travel research assistant."))
	assert.NotContains(t, out, "INTERNAL ASSISTANT STEPS")
}

func TestSimpleGenerateWithContext(t *testing.T) {
	g := simple.New("Find hotels.", simple.WithContextProviders(
		systemprompt.NewStaticContext("Trip Details", "- Destination: Tokyo"),
		systemprompt.NewStaticContext("Empty", ""),
	))
	expect := `Find hotels.

# EXTRA INFORMATION AND CONTEXT
## Trip Details
- Destination: Tokyo`
	assert.Equal(t, expect, g.Generate())
}

func TestSimpleGenerateSkipsEmptyContextSection(t *testing.T) {
	g := simple.New("Find hotels.", simple.WithContextProviders(systemprompt.NewStaticContext("Empty", "")))
	assert.Equal(t, "Find hotels.", g.Generate())
}

func TestCrispeGenerate(t *testing.T) {
	g := crispe.New(
		crispe.WithCapacities("Travel planner."),
		crispe.WithStatements("Summarize."),
		crispe.WithContextProviders(systemprompt.NewStaticContext("Flight Options", "JAL 5")),
	)
	expect := `# CAPACITY and ROLE
- Travel planner.

# STATEMENT and TASK
- Summarize.

# EXTRA INFORMATION AND CONTEXT
## Flight Options
JAL 5`
	assert.Equal(t, expect, g.Generate())
}

func TestBullet(t *testing.T) {
	assert.Equal(t, "- plain", systemprompt.Bullet("  plain "))
	assert.Equal(t, "- listed", systemprompt.Bullet("- listed"))
	assert.Equal(t, "* starred", systemprompt.Bullet("* starred"))
}

func TestContextProviderRegistry(t *testing.T) {
	g := simple.New("x")
	g.AddContextProviders(
		systemprompt.NewStaticContext("a", "1"),
		systemprompt.NewStaticContext("b", "2"),
		systemprompt.NewStaticContext("a", "dup"),
		systemprompt.NewStaticContext("c", "3"),
	)
	require.Len(t, g.ContextProviders(), 3)
	p, err := g.ContextProvider("a")
	require.NoError(t, err)
	assert.Equal(t, "1", p.Info())

	g.RemoveContextProviders("b")
	require.Len(t, g.ContextProviders(), 2)
	_, err = g.ContextProvider("b")
	assert.Error(t, err)
	g.RemoveContextProviders("a", "c")
	assert.Empty(t, g.ContextProviders())
}
