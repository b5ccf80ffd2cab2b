// -----------------------------------------------------------------------
// Knowledge service - best-effort client for the external retrieval API.
// -----------------------------------------------------------------------

package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
)

// DefaultTimeout bounds every knowledge-base call so an unresponsive backend
// cannot stall a research run.
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured marks missing knowledge-base credentials. Permanent for the
// process lifetime; callers treat it as "source not available".
var ErrNotConfigured = errors.New("knowledge base not configured")

// Service implements interfaces.KnowledgeService over a simple retrieval API.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
}

var _ interfaces.KnowledgeService = (*Service)(nil)

// NewService creates a knowledge-base client. Both base URL and API key are
// required for the service to be configured.
func NewService(config *common.KnowledgeConfig, logger arbor.ILogger) *Service {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports whether credentials are present.
func (s *Service) Configured() bool {
	return s.apiKey != "" && s.baseURL != ""
}

type queryRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type queryResponse struct {
	Hits []struct {
		ID      string  `json:"id,omitempty"`
		Title   string  `json:"title,omitempty"`
		Content string  `json:"content"`
		Score   float64 `json:"score,omitempty"`
	} `json:"hits"`
}

// Query retrieves up to maxResults hits for a topic.
func (s *Service) Query(ctx context.Context, topic string, maxResults int) (*models.KnowledgeResponse, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body, err := json.Marshal(&queryRequest{Query: topic, MaxResults: maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge base request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("knowledge base error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge response: %w", err)
	}

	response := &models.KnowledgeResponse{
		Topic:     topic,
		Hits:      make([]models.KnowledgeHit, 0, len(decoded.Hits)),
		Retrieved: time.Now().UTC(),
	}
	for _, hit := range decoded.Hits {
		response.Hits = append(response.Hits, models.KnowledgeHit{
			ID:      hit.ID,
			Title:   hit.Title,
			Content: hit.Content,
			Score:   hit.Score,
		})
	}

	s.logger.Debug().
		Str("topic", topic).
		Int("hit_count", len(response.Hits)).
		Msg("Knowledge base query completed")

	return response, nil
}
