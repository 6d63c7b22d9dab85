package insight

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig carries the provider configuration. An absent or
// placeholder key means the provider is unavailable and the
// orchestrator runs in mock mode without attempting a network call.
type GeminiConfig struct {
	APIKey string
	Model  string
}

const defaultGeminiModel = "gemini-2.0-flash"

// placeholder values that ship in example env files
var placeholderKeys = map[string]bool{
	"":                  true,
	"your-api-key":      true,
	"your-api-key-here": true,
	"changeme":          true,
}

// Configured reports whether the config holds a usable key.
func (c *GeminiConfig) Configured() bool {
	if c == nil {
		return false
	}
	return !placeholderKeys[strings.TrimSpace(c.APIKey)]
}

// GeminiProvider generates text through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider validates the configuration at construction time
// and returns ErrProviderUnavailable when no usable key is present.
func NewGeminiProvider(ctx context.Context, cfg *GeminiConfig) (*GeminiProvider, error) {
	if !cfg.Configured() {
		return nil, ErrProviderUnavailable
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Generate sends one prompt and returns the raw response text.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrProviderCall, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrProviderCall)
	}

	return text, nil
}
