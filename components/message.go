package components

import (
	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"
)

// NewRunID returns a new planning run ID.
func NewRunID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'assistant')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
)

// Message represents a single prompt message sent to a language model.
type Message struct {
	// role is the role of the message sender
	role MessageRole
	// content is the text of the message
	content string
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() string {
	return m.content
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	dist.Content = m.content
}

// ToAnthropic convert message to anthropic Message.
// System messages are not part of anthropic message list, they go to MessagesRequest.System
func (m Message) ToAnthropic(dist *anthropic.Message) {
	dist.Role = anthropic.ChatRole(m.role)
	dist.Content = []anthropic.MessageContent{anthropic.NewTextMessageContent(m.content)}
}

// ToCohere convert message to cohere Message
func (m Message) ToCohere(dist *cohere.Message) {
	switch m.role {
	case SystemRole:
		dist.Role = "SYSTEM"
		dist.System = &cohere.ChatMessage{
			Message: m.content,
		}
	case AssistantRole:
		dist.Role = "CHATBOT"
		dist.Chatbot = &cohere.ChatMessage{
			Message: m.content,
		}
	default:
		dist.Role = "USER"
		dist.User = &cohere.ChatMessage{
			Message: m.content,
		}
	}
}

// ToGemini convert message to gemini Content
func (m Message) ToGemini(dist *genai.Content) {
	switch m.role {
	case AssistantRole:
		dist.Role = "model"
	case SystemRole:
		// gemini takes system text through GenerativeModel.SystemInstruction
		dist.Role = ""
	default:
		dist.Role = "user"
	}
	dist.Parts = []genai.Part{genai.Text(m.content)}
}
