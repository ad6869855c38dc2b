package cohere

import (
	"context"
	"errors"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
	cohereOption "github.com/cohere-ai/cohere-go/v2/option"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
)

// Client is an llm.Client backed by the Cohere chat API
type Client struct {
	*cohereClient.Client
	llm.Options
}

var (
	_ llm.Client   = (*Client)(nil)
	_ llm.Verifier = (*Client)(nil)
)

// New returns a new Cohere Client
func New(authToken string, opts ...llm.Option) *Client {
	options := llm.NewOptions(llm.ProviderCohere, opts...)
	reqOpts := make([]cohereOption.RequestOption, 0, 3)
	reqOpts = append(reqOpts, cohereOption.WithToken(authToken))
	if baseURL := options.BaseURL(); baseURL != "" {
		reqOpts = append(reqOpts, cohereOption.WithBaseURL(baseURL))
	}
	if clt := options.HttpClient(); clt != nil {
		reqOpts = append(reqOpts, cohereOption.WithHTTPClient(clt))
	}
	return &Client{
		Client:  cohereClient.NewClient(reqOpts...),
		Options: options,
	}
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderCohere
}

// Generate sends req through the chat API. The system prompt is passed as a SYSTEM history message.
func (c *Client) Generate(ctx context.Context, req *llm.Request, resp *components.LLMResponse) error {
	model, temperature, maxTokens := c.Resolve(req)
	temp := float64(temperature)
	chatReq := cohere.ChatRequest{
		Model:       &model,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Message:     req.Prompt,
	}
	for _, msg := range req.Messages() {
		if msg.Role() != components.SystemRole {
			continue
		}
		v := new(cohere.Message)
		msg.ToCohere(v)
		chatReq.ChatHistory = append(chatReq.ChatHistory, v)
	}
	res, err := c.Chat(ctx, &chatReq)
	if err != nil {
		return classify(err)
	}
	resp.FromCohere(res)
	if resp.Model == "" {
		resp.Model = model
	}
	if strings.TrimSpace(resp.Content) == "" {
		return llm.NewError(llm.ProviderCohere, llm.ErrEmptyResponse, nil)
	}
	return nil
}

// Verify sends a single token chat request to check the credential
func (c *Client) Verify(ctx context.Context) error {
	model := c.Model()
	maxTokens := 1
	if _, err := c.Chat(ctx, &cohere.ChatRequest{Model: &model, MaxTokens: &maxTokens, Message: "ping"}); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return llm.NewError(llm.ProviderCohere, llm.KindFromStatus(apiErr.StatusCode), err)
	}
	return llm.Classify(llm.ProviderCohere, llm.ErrRequest, err)
}
