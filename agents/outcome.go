package agents

import (
	"encoding/json"
	"time"

	"github.com/bububa/trip-agents/components"
)

// Outcome is the result of a single agent run: either successful text or a failure message.
// Outcomes are values and never change once produced.
type Outcome struct {
	kind     Kind
	text     string
	err      string
	usage    *components.LLMUsage
	duration time.Duration
}

// Success returns a successful outcome holding text
func Success(kind Kind, text string) Outcome {
	return Outcome{kind: kind, text: text}
}

// Failure returns a failed outcome holding a human readable message
func Failure(kind Kind, message string) Outcome {
	if message == "" {
		message = "unknown error"
	}
	return Outcome{kind: kind, err: message}
}

func (o Outcome) withStats(usage *components.LLMUsage, duration time.Duration) Outcome {
	if usage != nil {
		u := *usage
		o.usage = &u
	}
	o.duration = duration
	return o
}

// Kind returns the agent kind that produced the outcome
func (o Outcome) Kind() Kind {
	return o.kind
}

// Text returns the generated text, empty for failures
func (o Outcome) Text() string {
	return o.text
}

// Error returns the failure message, empty for successes
func (o Outcome) Error() string {
	return o.err
}

// Failed reports whether the outcome is a failure
func (o Outcome) Failed() bool {
	return o.err != ""
}

// Succeeded reports whether the outcome holds text
func (o Outcome) Succeeded() bool {
	return o.err == "" && o.text != ""
}

// Resolved reports whether the outcome has been produced at all
func (o Outcome) Resolved() bool {
	return o.err != "" || o.text != ""
}

// Usage returns token usage of the model call, nil when unknown
func (o Outcome) Usage() *components.LLMUsage {
	return o.usage
}

// Duration returns how long the agent run took
func (o Outcome) Duration() time.Duration {
	return o.duration
}

type outcomeJSON struct {
	Kind       Kind                 `json:"kind"`
	Text       string               `json:"text,omitempty"`
	Error      string               `json:"error,omitempty"`
	Usage      *components.LLMUsage `json:"usage,omitempty"`
	DurationMs int64                `json:"duration_ms,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{
		Kind:       o.kind,
		Text:       o.text,
		Error:      o.err,
		Usage:      o.usage,
		DurationMs: o.duration.Milliseconds(),
	})
}
