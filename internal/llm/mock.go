package llm

import (
	"context"
	"fmt"
)

const providerMock = "mock"

// MockClient answers without any network call. Useful for local development.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("[MOCK] Here are a few ideas based on what you shared:\n"+
		"1. Box breathing: inhale 4s, hold 4s, exhale 4s, hold 4s. Repeat five times.\n"+
		"2. Ground yourself with 5-4-3-2-1: name 5 things you see, 4 you feel, 3 you hear, 2 you smell, 1 you taste.\n"+
		"3. Write down one small, concrete next step.\n"+
		"(prompt length: %d characters)", len(req.User))

	return &Completion{
		Text: text,
		Metadata: Metadata{
			Provider:     providerMock,
			Model:        req.Model,
			StopReason:   "end_turn",
			InputTokens:  int64(len(req.System)+len(req.User)) / 4,
			OutputTokens: int64(len(text)) / 4,
		},
	}, nil
}
