package insight

import "context"

// Provider is the interface for commentary-generating language models.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
