// Package llm provides a provider-agnostic interface for chat-style text generation.
// The OpenAI, Anthropic and Gemini backends implement Client; Router picks the
// backend that serves a requested model name.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrUnknownModel is returned when no configured backend serves a model.
	ErrUnknownModel = errors.New("unknown model")
	// ErrEmptyCompletion is returned when a backend answers without any text.
	ErrEmptyCompletion = errors.New("backend returned no text")
)

// Message is one (role, content) pair of a prompt.
type Message struct {
	Role    string
	Content string
}

// Request is a single synchronous text-generation call.
type Request struct {
	// Purpose and SessionID only label the call in the ledger.
	Purpose     string
	SessionID   string
	Model       string
	Temperature float64
	Messages    []Message
}

// Client is the interface every text-generation backend implements.
// Keep it small: one call, plus a name for logging and call tracking.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	ProviderName() string
}
