package anthropic

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
)

// Client is an llm.Client backed by the Anthropic messages API
type Client struct {
	*anthropic.Client
	llm.Options
}

var (
	_ llm.Client   = (*Client)(nil)
	_ llm.Verifier = (*Client)(nil)
)

// New returns a new Anthropic Client
func New(authToken string, opts ...llm.Option) *Client {
	options := llm.NewOptions(llm.ProviderAnthropic, opts...)
	clientOpts := make([]anthropic.ClientOption, 0, 2)
	if baseURL := options.BaseURL(); baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}
	if clt := options.HttpClient(); clt != nil {
		clientOpts = append(clientOpts, anthropic.WithHTTPClient(clt))
	}
	return &Client{
		Client:  anthropic.NewClient(authToken, clientOpts...),
		Options: options,
	}
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderAnthropic
}

// Generate sends req through the messages API, the system prompt goes to MessagesRequest.System
func (c *Client) Generate(ctx context.Context, req *llm.Request, resp *components.LLMResponse) error {
	model, temperature, maxTokens := c.Resolve(req)
	chatReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(model),
		System:      req.System,
		Temperature: &temperature,
		MaxTokens:   maxTokens,
	}
	for _, msg := range req.Messages() {
		if msg.Role() == components.SystemRole {
			continue
		}
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	res, err := c.CreateMessages(ctx, chatReq)
	if err != nil {
		return classify(err)
	}
	resp.FromAnthropic(&res)
	if strings.TrimSpace(resp.Content) == "" {
		return llm.NewError(llm.ProviderAnthropic, llm.ErrEmptyResponse, nil)
	}
	return nil
}

// Verify sends a single token request; anthropic has no cheaper authenticated call
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.Model()),
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return llm.NewError(llm.ProviderAnthropic, kindFromType(string(apiErr.Type)), err)
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return llm.NewError(llm.ProviderAnthropic, llm.KindFromStatus(reqErr.StatusCode), err)
	}
	return llm.Classify(llm.ProviderAnthropic, llm.ErrRequest, err)
}

func kindFromType(typ string) error {
	switch typ {
	case "authentication_error", "permission_error":
		return llm.ErrAuthentication
	case "rate_limit_error":
		return llm.ErrQuota
	case "overloaded_error", "api_error":
		return llm.ErrUnavailable
	case "invalid_request_error", "not_found_error", "request_too_large":
		return llm.ErrInvalidRequest
	}
	return llm.ErrRequest
}
