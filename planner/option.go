package planner

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
)

// DefaultConcurrency runs the three independent agents at once
const DefaultConcurrency = 3

// SummaryPolicy decides whether the summary agent runs after upstream failures
type SummaryPolicy string

const (
	// SummaryAlways runs the summary whatever the upstream outcomes are
	SummaryAlways SummaryPolicy = "always"
	// SummaryRequireAny skips the summary when every upstream agent failed
	SummaryRequireAny SummaryPolicy = "require_any"
	// SummaryRequireAll skips the summary when any upstream agent failed
	SummaryRequireAll SummaryPolicy = "require_all"
)

// ParseSummaryPolicy resolves a policy by name, the empty string is SummaryAlways
func ParseSummaryPolicy(s string) (SummaryPolicy, error) {
	switch p := SummaryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SummaryAlways, nil
	case SummaryAlways, SummaryRequireAny, SummaryRequireAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown summary policy %q, expect always, require_any or require_all", s)
}

// allows reports whether the summary may run given how many of total upstream agents failed
func (p SummaryPolicy) allows(failed int, total int) bool {
	switch p {
	case SummaryRequireAny:
		return failed < total
	case SummaryRequireAll:
		return failed == 0
	}
	return true
}

type options struct {
	logger           *slog.Logger
	concurrency      int
	policy           SummaryPolicy
	timeout          time.Duration
	callTimeout      time.Duration
	model            string
	temperature      *float32
	maxTokens        int
	baseURL          string
	httpClient       *http.Client
	tokenCounter     components.TokenCounter
	maxContextTokens int
	skipVerify       bool
	runners          map[agents.Kind]agents.Runner
}

func newOptions(opts ...Option) *options {
	ret := &options{
		concurrency: DefaultConcurrency,
		policy:      SummaryAlways,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.concurrency < 1 {
		ret.concurrency = 1
	}
	return ret
}

func (o *options) llmOptions() []llm.Option {
	var ret []llm.Option
	if o.model != "" {
		ret = append(ret, llm.WithModel(o.model))
	}
	if o.temperature != nil {
		ret = append(ret, llm.WithTemperature(*o.temperature))
	}
	if o.maxTokens > 0 {
		ret = append(ret, llm.WithMaxTokens(o.maxTokens))
	}
	if o.baseURL != "" {
		ret = append(ret, llm.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		ret = append(ret, llm.WithHttpClient(o.httpClient))
	}
	return ret
}

func (o *options) agentOptions(clt llm.Client) []agents.Option {
	ret := []agents.Option{
		agents.WithClient(clt),
		agents.WithModel(o.model),
		agents.WithMaxTokens(o.maxTokens),
		agents.WithTimeout(o.callTimeout),
		agents.WithMaxContextTokens(o.maxContextTokens),
	}
	if o.temperature != nil {
		ret = append(ret, agents.WithTemperature(*o.temperature))
	}
	if o.tokenCounter != nil {
		ret = append(ret, agents.WithTokenCounter(o.tokenCounter))
	}
	return ret
}

type Option func(o *options)

// WithLogger sets the logger, slog.Default() by default
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithConcurrency bounds how many independent agents run at once, 1 runs them in order
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

func WithSummaryPolicy(p SummaryPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithTimeout bounds a whole planning run. A run exceeding it fails with ErrTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithCallTimeout bounds every single agent call. A call exceeding it becomes a failed outcome.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		o.callTimeout = d
	}
}

func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(o *options) {
		o.temperature = &temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *options) {
		o.maxTokens = maxTokens
	}
}

// WithBaseURL points the provider client at a compatible endpoint
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(o *options) {
		o.httpClient = clt
	}
}

func WithTokenCounter(counter components.TokenCounter) Option {
	return func(o *options) {
		o.tokenCounter = counter
	}
}

// WithMaxContextTokens caps each upstream text handed to the summary agent
func WithMaxContextTokens(n int) Option {
	return func(o *options) {
		o.maxContextTokens = n
	}
}

// WithSkipVerify skips the credential handshake in New
func WithSkipVerify() Option {
	return func(o *options) {
		o.skipVerify = true
	}
}

// WithAgent replaces the built-in agent of r.Kind()
func WithAgent(r agents.Runner) Option {
	return func(o *options) {
		if o.runners == nil {
			o.runners = make(map[agents.Kind]agents.Runner, len(agents.Kinds))
		}
		o.runners[r.Kind()] = r
	}
}
