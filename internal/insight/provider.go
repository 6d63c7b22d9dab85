package insight

import (
	"context"
	"errors"
)

// Provider failure taxonomy. Both conditions are absorbed by the
// orchestrator and converted to fallback insights; they are never
// surfaced as pipeline failures.
var (
	ErrProviderUnavailable = errors.New("ai provider is not configured")
	ErrProviderCall        = errors.New("ai provider call failed")
)

// Provider is the single capability the orchestrator needs from a
// language-generation backend: one prompt in, one response text out.
// No streaming.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
