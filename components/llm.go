package components

import (
	"fmt"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// LLMResponse provider chat response
type LLMResponse struct {
	ID        string      `json:"id,omitempty"`
	Role      MessageRole `json:"role,omitempty"`
	Model     string      `json:"model,omitempty"`
	Usage     *LLMUsage   `json:"usage,omitempty"`
	Timestamp int64       `json:"ts,omitempty"`
	// Content is the generated text
	Content string `json:"content,omitempty"`
	// Details raw provider payload
	Details any `json:"-"`
}

// FromOpenAI convnert response from openai
func (r *LLMResponse) FromOpenAI(v *openai.ChatCompletionResponse) {
	r.ID = v.ID
	r.Role = AssistantRole
	r.Model = v.Model
	r.Timestamp = v.Created
	r.Usage = &LLMUsage{
		InputTokens:  int64(v.Usage.PromptTokens),
		OutputTokens: int64(v.Usage.CompletionTokens),
	}
	if len(v.Choices) > 0 {
		r.Content = v.Choices[0].Message.Content
	}
	r.Details = v.Choices
}

// FromAnthropic convert response from anthropic
func (r *LLMResponse) FromAnthropic(v *anthropic.MessagesResponse) {
	r.ID = v.ID
	r.Role = AssistantRole
	r.Model = string(v.Model)
	r.Timestamp = time.Now().Unix()
	r.Usage = &LLMUsage{
		InputTokens:  int64(v.Usage.InputTokens),
		OutputTokens: int64(v.Usage.OutputTokens),
	}
	r.Content = v.GetFirstContentText()
	r.Details = v.Content
}

// FromCohere convert response from cohere
func (r *LLMResponse) FromCohere(v *cohere.NonStreamedChatResponse) {
	if v.GenerationId != nil {
		r.ID = *v.GenerationId
	}
	r.Role = AssistantRole
	r.Timestamp = time.Now().Unix()
	if meta := v.Meta; meta != nil {
		if usage := meta.Tokens; usage != nil {
			r.Usage = new(LLMUsage)
			if usage.InputTokens != nil {
				r.Usage.InputTokens = int64(*usage.InputTokens)
			}
			if usage.OutputTokens != nil {
				r.Usage.OutputTokens = int64(*usage.OutputTokens)
			}
		}
		if version := meta.ApiVersion; version != nil {
			r.Model = version.Version
		}
	}
	r.Content = v.Text
	r.Details = v
}

// FromGemini convert response from gemini, the text parts of the first candidate are concatenated
func (r *LLMResponse) FromGemini(v *genai.GenerateContentResponse) {
	r.Role = AssistantRole
	r.Timestamp = time.Now().Unix()
	if v.UsageMetadata != nil && (v.UsageMetadata.PromptTokenCount > 0 || v.UsageMetadata.CandidatesTokenCount > 0) {
		r.Usage = new(LLMUsage)
		r.Usage.InputTokens = int64(v.UsageMetadata.PromptTokenCount)
		r.Usage.OutputTokens = int64(v.UsageMetadata.CandidatesTokenCount)
	}
	if len(v.Candidates) > 0 && v.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range v.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		r.Content = sb.String()
	}
	r.Details = v.Candidates
}

type LLMUsage struct {
	InputTokens  int64 `json:"input_tokens,omitempty"`
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

func (u *LLMUsage) Merge(v *LLMUsage) {
	if v == nil {
		return
	}
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}

// Total returns input plus output tokens
func (u LLMUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u LLMUsage) String() string {
	return fmt.Sprintf("%d in / %d out", u.InputTokens, u.OutputTokens)
}
