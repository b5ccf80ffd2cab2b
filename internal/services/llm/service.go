package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
)

// ErrNotConfigured is returned when no API key is available for the selected
// generation provider.
var ErrNotConfigured = errors.New("llm provider not configured")

// generator is the single-call seam between the Service and a concrete model
// backend. Implementations return the raw model text, which may be empty.
type generator interface {
	generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// Service wraps a configured generation backend with defaults, rate-limit
// retry, and the empty-response contract from interfaces.LLMService.
type Service struct {
	provider           string
	gen                generator
	defaultTemperature float32
	defaultMaxTokens   int
	retry              *RetryConfig
	logger             arbor.ILogger
}

var _ interfaces.LLMService = (*Service)(nil)

// Option customizes Service construction.
type Option func(*Service)

// WithGenerator replaces the provider backend. Used in tests.
func WithGenerator(gen generator) Option {
	return func(s *Service) {
		s.gen = gen
	}
}

// WithRetryConfig replaces the rate-limit retry settings.
func WithRetryConfig(retry *RetryConfig) Option {
	return func(s *Service) {
		s.retry = retry
	}
}

// NewService creates a generation service for the configured default provider.
// Returns ErrNotConfigured when the selected provider has no API key.
func NewService(config *common.Config, logger arbor.ILogger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	provider := config.LLM.DefaultProvider
	if provider == "" {
		provider = "gemini"
	}

	service := &Service{
		provider: provider,
		retry:    NewDefaultRetryConfig(),
		logger:   logger,
	}

	switch provider {
	case "gemini":
		service.defaultTemperature = config.Gemini.Temperature
		service.defaultMaxTokens = config.Gemini.MaxTokens
		if config.Gemini.APIKey != "" {
			gen, err := newGeminiGenerator(config.Gemini)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize gemini backend: %w", err)
			}
			service.gen = gen
		}
	case "claude":
		service.defaultTemperature = config.Claude.Temperature
		service.defaultMaxTokens = config.Claude.MaxTokens
		if config.Claude.APIKey != "" {
			service.gen = newClaudeGenerator(config.Claude)
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}

	for _, opt := range opts {
		opt(service)
	}

	if service.gen == nil {
		return nil, fmt.Errorf("%w: no API key for provider %q", ErrNotConfigured, provider)
	}

	logger.Debug().
		Str("provider", provider).
		Float32("temperature", service.defaultTemperature).
		Int("max_tokens", service.defaultMaxTokens).
		Msg("LLM service initialized")

	return service, nil
}

// Generate blocks until the model responds or the context is done. Rate-limit
// errors are retried with backoff; an empty model response is returned as an
// empty string after a warning, not as an error.
func (s *Service) Generate(ctx context.Context, prompt string, opts interfaces.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = s.defaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.defaultMaxTokens
	}

	var lastErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		text, err := s.gen.generate(ctx, prompt, temperature, maxTokens)
		if err == nil {
			if text == "" {
				s.logger.Warn().
					Str("provider", s.provider).
					Int("prompt_len", len(prompt)).
					Msg("Model returned empty response")
			}
			return text, nil
		}

		lastErr = err
		if !IsRateLimitError(err) || attempt == s.retry.MaxRetries {
			break
		}

		backoff := s.retry.CalculateBackoff(attempt, ExtractRetryDelay(err))
		s.logger.Warn().
			Str("provider", s.provider).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("Rate limited by model provider, retrying")

		if err := sleepContext(ctx, backoff); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%s generation failed: %w", s.provider, lastErr)
}

// GenerateAsync starts generation in the background and returns a channel
// carrying exactly one result. The channel is closed after delivery.
func (s *Service) GenerateAsync(ctx context.Context, prompt string, opts interfaces.GenerateOptions) <-chan interfaces.GenerateResult {
	ch := make(chan interfaces.GenerateResult, 1)
	go func() {
		defer close(ch)
		text, err := s.Generate(ctx, prompt, opts)
		ch <- interfaces.GenerateResult{Text: text, Err: err}
	}()
	return ch
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
