package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/vestigo/internal/common"
)

// claudeGenerator calls the Anthropic Messages API.
type claudeGenerator struct {
	client anthropic.Client
	model  string
}

func newClaudeGenerator(config common.ClaudeConfig) *claudeGenerator {
	model := config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &claudeGenerator{
		client: anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		model:  model,
	}
}

func (c *claudeGenerator) generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return text.String(), nil
}
