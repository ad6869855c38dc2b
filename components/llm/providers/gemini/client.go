package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
)

// Client is an llm.Client backed by the Google Gemini API
type Client struct {
	*genai.Client
	llm.Options
}

var (
	_ llm.Client   = (*Client)(nil)
	_ llm.Verifier = (*Client)(nil)
)

// New returns a new Gemini Client. Close it when done.
func New(ctx context.Context, authToken string, opts ...llm.Option) (*Client, error) {
	options := llm.NewOptions(llm.ProviderGemini, opts...)
	clientOpts := []option.ClientOption{option.WithAPIKey(authToken)}
	if baseURL := options.BaseURL(); baseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(baseURL))
	}
	clt, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:  clt,
		Options: options,
	}, nil
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderGemini
}

// Generate sends req to a GenerativeModel built for this call only
func (c *Client) Generate(ctx context.Context, req *llm.Request, resp *components.LLMResponse) error {
	modelName, temperature, maxTokens := c.Resolve(req)
	model := c.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	var parts []genai.Part
	for _, msg := range req.Messages() {
		content := new(genai.Content)
		msg.ToGemini(content)
		if msg.Role() == components.SystemRole {
			model.SystemInstruction = content
			continue
		}
		parts = append(parts, content.Parts...)
	}
	res, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return classify(err)
	}
	resp.FromGemini(res)
	resp.Model = modelName
	if strings.TrimSpace(resp.Content) == "" {
		return llm.NewError(llm.ProviderGemini, llm.ErrEmptyResponse, nil)
	}
	return nil
}

// Verify fetches the first available model to check the credential
func (c *Client) Verify(ctx context.Context) error {
	it := c.ListModels(ctx)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return llm.NewError(llm.ProviderGemini, llm.ErrMalformedResponse, err)
	}
	if ae, ok := apierror.FromError(err); ok {
		if code := ae.HTTPCode(); code > 0 {
			return llm.NewError(llm.ProviderGemini, llm.KindFromStatus(code), err)
		}
		if st := ae.GRPCStatus(); st != nil {
			return llm.NewError(llm.ProviderGemini, kindFromCode(st.Code()), err)
		}
	}
	return llm.Classify(llm.ProviderGemini, llm.ErrRequest, err)
}

func kindFromCode(code codes.Code) error {
	switch code {
	case codes.Unauthenticated, codes.PermissionDenied:
		return llm.ErrAuthentication
	case codes.ResourceExhausted:
		return llm.ErrQuota
	case codes.DeadlineExceeded:
		return llm.ErrTimeout
	case codes.Unavailable, codes.Internal:
		return llm.ErrUnavailable
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition:
		return llm.ErrInvalidRequest
	}
	return llm.ErrRequest
}
