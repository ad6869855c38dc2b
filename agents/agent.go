package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/components/systemprompt"
)

var (
	// ErrNoClient the agent was built without an llm client
	ErrNoClient = errors.New("no llm client configured")
	errPanic    = errors.New("agent panicked")
)

// Config represents general agents configuration
type Config struct {
	// client Client for interacting with the language model
	client llm.Client
	//	systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// model llm model, empty uses the client default
	model string
	// temperature Temperature for response generation, nil uses the client default
	temperature *float32
	// maxTokens Maximum number of tokens allowed in the response
	maxTokens int
	// timeout bounds a single model call, zero means no bound besides the caller context
	timeout time.Duration
	// tokenCounter counts tokens of upstream text fed to the summary agent
	tokenCounter components.TokenCounter
	// maxContextTokens caps each upstream text fed to the summary agent, zero means no cap
	maxContextTokens int
	// name is Agent name presentation
	name string
}

// Agent turns a trip Input into an Outcome through a single model call.
// The agent holds no per-run state and is safe for concurrent use as long as its
// setters are not called while it runs.
type Agent struct {
	Config
	kind      Kind
	task      task
	startHook func(context.Context, *Agent, *Input)
	endHook   func(context.Context, *Agent, *Input, Outcome, *components.LLMResponse)
	errorHook func(context.Context, *Agent, *Input, error)
}

var _ Runner = (*Agent)(nil)

// New returns the agent of kind
func New(kind Kind, options ...Option) (*Agent, error) {
	var t task
	switch kind {
	case KindFlight:
		t = flightTask{}
	case KindHotel:
		t = hotelTask{}
	case KindAttraction:
		t = attractionTask{}
	case KindSummary:
		t = summaryTask{}
	default:
		return nil, fmt.Errorf("unknown agent kind %d", int(kind))
	}
	return newAgent(kind, t, options...), nil
}

// NewFlightAgent returns the agent searching flight options
func NewFlightAgent(options ...Option) *Agent {
	return newAgent(KindFlight, flightTask{}, options...)
}

// NewHotelAgent returns the agent searching accommodation
func NewHotelAgent(options ...Option) *Agent {
	return newAgent(KindHotel, hotelTask{}, options...)
}

// NewAttractionAgent returns the agent discovering attractions
func NewAttractionAgent(options ...Option) *Agent {
	return newAgent(KindAttraction, attractionTask{}, options...)
}

// NewSummaryAgent returns the agent combining the other three outcomes into a trip plan
func NewSummaryAgent(options ...Option) *Agent {
	return newAgent(KindSummary, summaryTask{}, options...)
}

func newAgent(kind Kind, t task, options ...Option) *Agent {
	ret := &Agent{kind: kind, task: t}
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = t.systemPrompt()
	}
	if ret.name == "" {
		ret.name = kind.Title()
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = new(components.DefaultTokenCounter)
	}
	return ret
}

func (a *Agent) Kind() Kind {
	return a.kind
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) SetName(name string) {
	a.name = name
}

func (a *Agent) SetClient(clt llm.Client) {
	a.client = clt
}

func (a *Agent) SetSystemPromptGenerator(g systemprompt.Generator) {
	a.systemPromptGenerator = g
}

func (a *Agent) SetStartHook(fn func(context.Context, *Agent, *Input)) {
	a.startHook = fn
}

func (a *Agent) SetEndHook(fn func(context.Context, *Agent, *Input, Outcome, *components.LLMResponse)) {
	a.endHook = fn
}

func (a *Agent) SetErrorHook(fn func(context.Context, *Agent, *Input, error)) {
	a.errorHook = fn
}

// SystemPrompt returns the system prompt
func (a *Agent) SystemPrompt() string {
	return a.systemPromptGenerator.Generate()
}

// Prompt returns the user prompt the agent sends for in
func (a *Agent) Prompt(in *Input) (string, error) {
	if err := in.check(a.kind); err != nil {
		return "", err
	}
	return a.task.prompt(in, &a.Config), nil
}

// Run runs the agent with the given input synchronously. Every failure, including a
// panicking client, is captured as a Failure outcome.
func (a *Agent) Run(ctx context.Context, in *Input) (out Outcome) {
	start := time.Now()
	apiResp := new(components.LLMResponse)
	defer func() {
		if r := recover(); r != nil {
			out = a.fail(ctx, in, fmt.Errorf("%w: %v", errPanic, r), start)
		}
	}()
	if fn := a.startHook; fn != nil {
		fn(ctx, a, in)
	}
	if a.client == nil {
		return a.fail(ctx, in, ErrNoClient, start)
	}
	prompt, err := a.Prompt(in)
	if err != nil {
		return a.fail(ctx, in, err, start)
	}
	req := &llm.Request{
		System:      a.SystemPrompt(),
		Prompt:      prompt,
		Model:       a.model,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.client.Generate(callCtx, req, apiResp); err != nil {
		return a.fail(ctx, in, err, start)
	}
	text := strings.TrimSpace(apiResp.Content)
	if text == "" {
		return a.fail(ctx, in, llm.NewError(a.client.Provider(), llm.ErrEmptyResponse, nil), start)
	}
	out = Success(a.kind, text).withStats(apiResp.Usage, time.Since(start))
	if fn := a.endHook; fn != nil {
		fn(ctx, a, in, out, apiResp)
	}
	return out
}

func (a *Agent) fail(ctx context.Context, in *Input, err error, start time.Time) Outcome {
	if fn := a.errorHook; fn != nil {
		fn(ctx, a, in, err)
	}
	return Failure(a.kind, describe(err)).withStats(nil, time.Since(start))
}

func describe(err error) string {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNoClient) || errors.Is(err, errPanic) {
		return err.Error()
	}
	return llm.Describe(err)
}
