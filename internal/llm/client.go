// Package llm holds the text-generation clients the guidance feature can talk to.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey is returned when a real provider is selected without a credential.
	ErrMissingAPIKey = errors.New("llm: api key is not set")

	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("llm: unknown provider")

	// ErrEmptyCompletion is returned when the service answers without any text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
)

// Client sends a single system/user prompt pair and returns the generated text.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// CompletionRequest carries one prompt pair and its decoding parameters.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completion is the generated text plus whatever the provider reported about it.
type Completion struct {
	Text     string
	Metadata Metadata
}

// Metadata is opaque to callers; it is surfaced for display and logging only.
type Metadata struct {
	Provider     string `json:"provider"`
	Model        string `json:"model,omitempty"`
	ID           string `json:"id,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
	InputTokens  int64  `json:"input_tokens,omitempty"`
	OutputTokens int64  `json:"output_tokens,omitempty"`
}
