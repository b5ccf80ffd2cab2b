package interfaces

import "context"

// GenerateOptions carries per-call controls for text generation. Zero values
// fall back to configured defaults (temperature 0.7, max tokens 2000).
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// GenerateResult is the outcome delivered on the asynchronous path.
type GenerateResult struct {
	Text string
	Err  error
}

// LLMService wraps a single large-language-model call. An empty model response
// yields an empty string (logged as an anomaly), not an error; errors are
// reserved for hard transport/auth failure.
type LLMService interface {
	// Generate blocks until the model responds or the context is done.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateAsync starts generation and returns a channel carrying exactly
	// one result. Behaviorally identical to Generate aside from suspension.
	GenerateAsync(ctx context.Context, prompt string, opts GenerateOptions) <-chan GenerateResult
}
