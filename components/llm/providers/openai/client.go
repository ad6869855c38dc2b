package openai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
)

// Client is an llm.Client backed by the OpenAI chat completion API.
// Any OpenAI compatible endpoint can be used through llm.WithBaseURL.
type Client struct {
	*openai.Client
	llm.Options
}

var (
	_ llm.Client   = (*Client)(nil)
	_ llm.Verifier = (*Client)(nil)
)

// New returns a new OpenAI Client
func New(authToken string, opts ...llm.Option) *Client {
	options := llm.NewOptions(llm.ProviderOpenAI, opts...)
	cfg := openai.DefaultConfig(authToken)
	if baseURL := options.BaseURL(); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if clt := options.HttpClient(); clt != nil {
		cfg.HTTPClient = clt
	}
	return &Client{
		Client:  openai.NewClientWithConfig(cfg),
		Options: options,
	}
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderOpenAI
}

// Generate sends req as a chat completion
func (c *Client) Generate(ctx context.Context, req *llm.Request, resp *components.LLMResponse) error {
	model, temperature, maxTokens := c.Resolve(req)
	chatReq := openai.ChatCompletionRequest{
		Model:               model,
		Temperature:         temperature,
		MaxCompletionTokens: maxTokens,
	}
	for _, msg := range req.Messages() {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	res, err := c.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return classify(err)
	}
	if len(res.Choices) == 0 {
		return llm.NewError(llm.ProviderOpenAI, llm.ErrMalformedResponse, errors.New("no choices returned"))
	}
	resp.FromOpenAI(&res)
	if strings.TrimSpace(resp.Content) == "" {
		if res.Choices[0].FinishReason == openai.FinishReasonContentFilter {
			return llm.NewError(llm.ProviderOpenAI, llm.ErrMalformedResponse, errors.New("content filtered"))
		}
		return llm.NewError(llm.ProviderOpenAI, llm.ErrEmptyResponse, nil)
	}
	return nil
}

// Verify lists the available models to check the credential
func (c *Client) Verify(ctx context.Context) error {
	if _, err := c.ListModels(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.NewError(llm.ProviderOpenAI, llm.KindFromStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return llm.NewError(llm.ProviderOpenAI, llm.KindFromStatus(reqErr.HTTPStatusCode), err)
	}
	return llm.Classify(llm.ProviderOpenAI, llm.ErrRequest, err)
}
