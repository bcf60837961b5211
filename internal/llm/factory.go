package llm

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider        string
	AnthropicAPIKey string
	AnthropicURL    string
	GeminiAPIKey    string
	GeminiURL       string
}

// New creates the client named by s.Provider ("anthropic", "gemini" or "mock").
func New(s Settings) (Client, error) {
	switch strings.ToLower(s.Provider) {
	case "", providerAnthropic:
		c, err := NewAnthropicClient(s.AnthropicAPIKey, s.AnthropicURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", providerAnthropic).Msg("Using Anthropic LLM client")
		return c, nil
	case providerGemini:
		c, err := NewGeminiClient(s.GeminiAPIKey, s.GeminiURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", providerGemini).Msg("Using Gemini LLM client")
		return c, nil
	case providerMock:
		log.Warn().Msg("Using MOCK LLM client, guidance replies are canned")
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}
