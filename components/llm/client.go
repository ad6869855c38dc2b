package llm

import (
	"context"
	"net/http"

	"github.com/bububa/trip-agents/components"
)

// Request is a single text generation request
type Request struct {
	// System instructions for the model, may be empty
	System string
	// Prompt is the user message
	Prompt string
	// Model overrides the client model when not empty
	Model string
	// Temperature overrides the client temperature when not nil
	Temperature *float32
	// MaxTokens overrides the client max tokens when > 0
	MaxTokens int
}

// Messages returns the request as an ordered message list
func (r Request) Messages() []components.Message {
	ret := make([]components.Message, 0, 2)
	if r.System != "" {
		ret = append(ret, *components.NewMessage(components.SystemRole, r.System))
	}
	ret = append(ret, *components.NewMessage(components.UserRole, r.Prompt))
	return ret
}

// Client generates text from a prompt.
// Implementations must be safe for concurrent use.
type Client interface {
	Provider() Provider
	// Generate fills resp with the model answer to req.
	// Errors should be classified with the sentinels of this package.
	Generate(ctx context.Context, req *Request, resp *components.LLMResponse) error
}

// Verifier is implemented by clients able to check their credential with the provider
type Verifier interface {
	Verify(ctx context.Context) error
}

// Options common client options
type Options struct {
	model       string
	temperature float32
	maxTokens   int
	baseURL     string
	httpClient  *http.Client
}

type Option func(o *Options)

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(o *Options) {
		o.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.maxTokens = maxTokens
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(o *Options) {
		o.httpClient = clt
	}
}

// NewOptions applies opts over the defaults of provider
func NewOptions(provider Provider, opts ...Option) Options {
	ret := Options{
		model:       provider.DefaultModel(),
		temperature: 0.7,
		maxTokens:   4096,
	}
	for _, opt := range opts {
		opt(&ret)
	}
	return ret
}

func (o Options) Model() string {
	return o.model
}

func (o Options) Temperature() float32 {
	return o.temperature
}

func (o Options) MaxTokens() int {
	return o.maxTokens
}

func (o Options) BaseURL() string {
	return o.baseURL
}

func (o Options) HttpClient() *http.Client {
	return o.httpClient
}

// Resolve returns model, temperature and max tokens for req, falling back to the options
func (o Options) Resolve(req *Request) (string, float32, int) {
	model := o.model
	if req.Model != "" {
		model = req.Model
	}
	temperature := o.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := o.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	return model, temperature, maxTokens
}
