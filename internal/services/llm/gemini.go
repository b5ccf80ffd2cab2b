package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/vestigo/internal/common"
	"google.golang.org/genai"
)

// geminiGenerator calls the Gemini API through the official genai client.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(config common.GeminiConfig) (*geminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	// Take the first candidate that produced text.
	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}

	return text.String(), nil
}
