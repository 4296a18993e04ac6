// Package api provides the client for the remote chat completions service.
//
// # Architecture
//
//   - client.go: AIClient interface consumed by the explainer
//   - completion.go: CompletionClient, an OpenAI compatible chat completions client
//
// Every call issues exactly one HTTP request. Failures come back as plain
// errors: *APIError for non-2xx responses, ErrEmptyResponse when the answer
// has no choices, wrapped transport and decoding errors otherwise. Callers
// decide how to present them.
//
// # Usage
//
//	cfg := config.Load("", os.Stdout)
//	client := api.NewCompletionClient(cfg, api.WithSessionID(id))
//	defer client.Close()
//	text, err := client.Complete(ctx, systemPrompt, userPrompt)
//
// Setting DEBUG=ai-service logs every request and response with the
// Authorization header redacted.
package api
