package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
)

type stubGenerator struct {
	calls       int
	responses   []string
	errs        []error
	temperature float32
	maxTokens   int
}

func (g *stubGenerator) generate(_ context.Context, _ string, temperature float32, maxTokens int) (string, error) {
	idx := g.calls
	g.calls++
	g.temperature = temperature
	g.maxTokens = maxTokens

	var err error
	if idx < len(g.errs) {
		err = g.errs[idx]
	}
	var text string
	if idx < len(g.responses) {
		text = g.responses[idx]
	}
	return text, err
}

func fastRetry() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func newTestService(t *testing.T, gen generator) *Service {
	t.Helper()
	config := common.NewDefaultConfig()
	service, err := NewService(config, common.GetLogger(), WithGenerator(gen), WithRetryConfig(fastRetry()))
	require.NoError(t, err)
	return service
}

func TestNewService_NotConfigured(t *testing.T) {
	config := common.NewDefaultConfig()

	_, err := NewService(config, common.GetLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestNewService_UnknownProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.DefaultProvider = "oracle"

	_, err := NewService(config, common.GetLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestGenerate_UsesConfiguredDefaults(t *testing.T) {
	gen := &stubGenerator{responses: []string{"hello"}}
	service := newTestService(t, gen)

	text, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, float32(0.7), gen.temperature)
	assert.Equal(t, 2000, gen.maxTokens)
}

func TestGenerate_OverridesPerCall(t *testing.T) {
	gen := &stubGenerator{responses: []string{"ok"}}
	service := newTestService(t, gen)

	_, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, float32(0.3), gen.temperature)
	assert.Equal(t, 500, gen.maxTokens)
}

func TestGenerate_EmptyResponseIsNotError(t *testing.T) {
	gen := &stubGenerator{responses: []string{""}}
	service := newTestService(t, gen)

	text, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerate_RetriesRateLimit(t *testing.T) {
	gen := &stubGenerator{
		errs:      []error{errors.New("429 RESOURCE_EXHAUSTED"), nil},
		responses: []string{"", "recovered"},
	}
	service := newTestService(t, gen)

	text, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 2, gen.calls)
}

func TestGenerate_DoesNotRetryHardFailure(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("invalid api key")}}
	service := newTestService(t, gen)

	_, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	limitErr := errors.New("quota exceeded")
	gen := &stubGenerator{errs: []error{limitErr, limitErr, limitErr, limitErr}}
	service := newTestService(t, gen)

	_, err := service.Generate(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, 3, gen.calls)
}

func TestGenerateAsync_DeliversSingleResult(t *testing.T) {
	gen := &stubGenerator{responses: []string{"async text"}}
	service := newTestService(t, gen)

	ch := service.GenerateAsync(context.Background(), "prompt", interfaces.GenerateOptions{})

	result, ok := <-ch
	require.True(t, ok)
	require.NoError(t, result.Err)
	assert.Equal(t, "async text", result.Text)

	_, ok = <-ch
	assert.False(t, ok, "channel should be closed after the single result")
}

func TestGenerateAsync_PropagatesError(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("boom")}}
	service := newTestService(t, gen)

	result := <-service.GenerateAsync(context.Background(), "prompt", interfaces.GenerateOptions{})
	require.Error(t, result.Err)
	assert.Empty(t, result.Text)
}
