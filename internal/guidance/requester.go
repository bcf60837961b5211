// Package guidance turns a description of how someone feels into
// anxiety-management suggestions from a text-generation service.
package guidance

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"serenifi/internal/llm"
)

var (
	// ErrConfiguration means the requester has no usable client, typically
	// because the API credential was missing at startup.
	ErrConfiguration = errors.New("guidance: not configured")

	// ErrGenerationUnavailable covers every failure to obtain a reply:
	// network, authentication, quota or model errors.
	ErrGenerationUnavailable = errors.New("guidance: generation unavailable")
)

// Defaults used when Options leaves a field at its zero value.
const (
	DefaultModel       = "claude-3-opus-20240229"
	DefaultMaxTokens   = 250
	DefaultTemperature = 0.2
)

// Request is the four-field description of the user's current state.
type Request struct {
	Mood               string `json:"mood" form:"mood"`
	FeelingDescription string `json:"feeling_description" form:"feeling_description"`
	StressLevel        string `json:"stress_level" form:"stress_level"`
	RecentEvents       string `json:"recent_events" form:"recent_events"`
}

// Response is the generated advice, untouched, plus provider metadata.
type Response struct {
	Text     string       `json:"text"`
	Metadata llm.Metadata `json:"metadata"`
}

// Options are the decoding parameters sent with every request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Requester holds no per-call state; one instance serves every request.
type Requester struct {
	client      llm.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewRequester wires a client into a Requester. A nil client is accepted so
// the rest of the application can run without credentials; every call then
// fails with ErrConfiguration.
func NewRequester(client llm.Client, opts Options) *Requester {
	r := &Requester{
		client:      client,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: DefaultTemperature,
	}
	if r.model == "" {
		r.model = DefaultModel
	}
	if r.maxTokens <= 0 {
		r.maxTokens = DefaultMaxTokens
	}
	if opts.Temperature != nil {
		r.temperature = *opts.Temperature
	}
	return r
}

// Configured reports whether calls can reach a generation service.
func (r *Requester) Configured() bool {
	return r.client != nil
}

// Request builds the prompt and makes exactly one call to the client.
// The reply text is returned exactly as received.
func (r *Requester) Request(ctx context.Context, req Request) (*Response, error) {
	if r.client == nil {
		return nil, ErrConfiguration
	}

	prompt := BuildPrompt(req)
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("model", r.model).
		Int("max_tokens", r.maxTokens).
		Float64("temperature", r.temperature).
		Msg("Requesting anxiety guidance")

	completion, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:       r.model,
		System:      prompt.System,
		User:        prompt.User,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	return &Response{
		Text:     completion.Text,
		Metadata: completion.Metadata,
	}, nil
}
