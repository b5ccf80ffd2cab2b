package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 status", errors.New("Error 429: too many requests"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"quota message", errors.New("quota exceeded for model"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimitError(tt.err))
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil", nil, 0},
		{"please retry", errors.New("429: Please retry in 21s"), 21 * time.Second},
		{"retryDelay field", errors.New("retryDelay: 7s"), 7 * time.Second},
		{"fractional seconds", errors.New("Please retry in 2.5s"), 2500 * time.Millisecond},
		{"no delay", errors.New("quota exceeded"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRetryDelay(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    10 * time.Second,
		MaxBackoff:        40 * time.Second,
		BackoffMultiplier: 2.0,
	}

	assert.Equal(t, 10*time.Second, config.CalculateBackoff(0, 0))
	assert.Equal(t, 20*time.Second, config.CalculateBackoff(1, 0))
	assert.Equal(t, 40*time.Second, config.CalculateBackoff(2, 0), "capped at MaxBackoff")

	// API-suggested delay becomes the base, plus a safety margin.
	assert.Equal(t, 25*time.Second, config.CalculateBackoff(0, 20*time.Second))
}
