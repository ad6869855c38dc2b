package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/components/llm/providers/anthropic"
	"github.com/bububa/trip-agents/components/llm/providers/cohere"
	"github.com/bububa/trip-agents/components/llm/providers/gemini"
	"github.com/bububa/trip-agents/components/llm/providers/openai"
)

var (
	FromOpenAI    = openai.New
	FromAnthropic = anthropic.New
	FromGemini    = gemini.New
	FromCohere    = cohere.New
)

// ErrMissingCredential the credential is empty
var ErrMissingCredential = errors.New("missing API key")

// CheckCredential rejects credentials that can never be valid
func CheckCredential(credential string) error {
	if strings.TrimSpace(credential) == "" {
		return ErrMissingCredential
	}
	if strings.ContainsAny(credential, " \t\r\n") {
		return errors.New("API key must not contain whitespace")
	}
	return nil
}

// New builds the llm.Client for provider
func New(ctx context.Context, provider llm.Provider, credential string, opts ...llm.Option) (llm.Client, error) {
	if err := CheckCredential(credential); err != nil {
		return nil, err
	}
	switch provider {
	case llm.ProviderAnthropic:
		return FromAnthropic(credential, opts...), nil
	case llm.ProviderOpenAI:
		return FromOpenAI(credential, opts...), nil
	case llm.ProviderGemini:
		clt, err := FromGemini(ctx, credential, opts...)
		if err != nil {
			return nil, err
		}
		return clt, nil
	case llm.ProviderCohere:
		return FromCohere(credential, opts...), nil
	}
	return nil, fmt.Errorf("unknown model family %q", provider)
}
