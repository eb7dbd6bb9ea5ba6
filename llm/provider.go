// Package llm provides the model-completion collaborator used inside
// specialist stages. Stages depend only on the Provider interface; the
// OpenRouter implementation lives alongside it.
package llm

import (
	"context"
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one message in a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a completion request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []Message     `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
}

// ChatUsage reports token usage for one completion.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is a completion response.
type ChatResponse struct {
	ID        string    `json:"id,omitempty"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	Usage     ChatUsage `json:"usage,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Provider is the completion interface stages call. Implementations own their
// timeouts and error payloads; the workflow engine never sees provider errors
// directly because stages degrade locally.
type Provider interface {
	// Name returns the provider name.
	Name() string
	// Completion performs a chat completion call.
	Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
