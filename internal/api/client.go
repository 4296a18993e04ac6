package api

import (
	"context"
)

// AIClient defines the interface for completion clients.
// The explainer depends on it so tests can swap in a fake.
type AIClient interface {
	// Complete sends a system and user prompt and returns the answer text
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)

	// Close releases any resources held by the client
	Close()
}

// Ensure the concrete client implements AIClient
var _ AIClient = (*CompletionClient)(nil)
