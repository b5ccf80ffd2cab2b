// -----------------------------------------------------------------------
// Search service - Tavily-backed web search with response caching,
// theme extraction and result categorization.
// -----------------------------------------------------------------------

package search

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
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Tavily search API.
	DefaultBaseURL = "https://api.tavily.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	defaultMaxResults = 5

	// maxResultsLimit matches the provider's documented max_results cap.
	maxResultsLimit = 20
)

// Service implements interfaces.SearchService over the Tavily API.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *responseCache
	logger     arbor.ILogger
}

// Compile-time assertion: Service implements SearchService
var _ interfaces.SearchService = (*Service)(nil)

// Option configures the Service.
type Option func(*Service)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(s *Service) {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithClock overrides the cache clock, for deterministic TTL testing.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.cache.clock = clock
	}
}

// NewService creates a new search service. An empty API key is valid: every
// call then returns a "not configured" error response without touching the
// network.
func NewService(config *common.SearchConfig, logger arbor.ILogger, opts ...Option) *Service {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	s := &Service{
		baseURL:    DefaultBaseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		cache:      newResponseCache(config.CacheTTL, config.CacheMaxSize),
		logger:     logger,
	}
	if config.BaseURL != "" {
		s.baseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search performs a cached web search. Provider failures are error-tagged in
// the response; the call itself never fails.
func (s *Service) Search(ctx context.Context, query string, opts models.SearchOptions) *models.SearchResponse {
	if s.apiKey == "" {
		return models.ErrorSearchResponse(query, ErrNotConfigured.Error())
	}

	depth := opts.Depth
	if depth != models.SearchDepthBasic && depth != models.SearchDepthAdvanced {
		depth = models.SearchDepthBasic
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxResultsLimit {
		maxResults = maxResultsLimit
	}

	key := cacheKey(query, depth, maxResults)
	if cached := s.cache.Get(key); cached != nil {
		s.logger.Debug().Str("query", query).Msg("Search cache hit")
		return cached
	}

	raw, err := s.callProvider(ctx, &searchRequest{
		Query:          query,
		SearchDepth:    string(depth),
		MaxResults:     maxResults,
		IncludeDomains: opts.IncludeDomains,
		ExcludeDomains: opts.ExcludeDomains,
		IncludeAnswer:  true,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Search provider call failed")
		return models.ErrorSearchResponse(query, err.Error())
	}

	response := s.enhance(query, raw)
	s.cache.Put(key, response)

	s.logger.Debug().
		Str("query", query).
		Str("depth", string(depth)).
		Int("result_count", len(response.Results)).
		Msg("Search completed")

	return response
}

// CheckStatus issues a minimal 1-result probe, bypassing the cache, and
// classifies the outcome so callers can short-circuit on quota exhaustion.
func (s *Service) CheckStatus(ctx context.Context) models.ProviderStatus {
	if s.apiKey == "" {
		return models.ProviderStatus{
			Code:    models.ProviderStatusNotConfigured,
			Message: ErrNotConfigured.Error(),
		}
	}

	_, err := s.callProvider(ctx, &searchRequest{
		Query:       "status check",
		SearchDepth: string(models.SearchDepthBasic),
		MaxResults:  1,
	})
	if err == nil {
		return models.ProviderStatus{Code: models.ProviderStatusOK}
	}

	if isLimitError(err) {
		return models.ProviderStatus{
			Code:    models.ProviderStatusLimitExceeded,
			Message: err.Error(),
		}
	}
	return models.ProviderStatus{
		Code:    models.ProviderStatusError,
		Message: err.Error(),
	}
}

// enhance shapes a raw provider response: theme extraction and result
// categorization on top of the plain hit list.
func (s *Service) enhance(query string, raw *searchResponse) *models.SearchResponse {
	results := make([]models.SearchResult, 0, len(raw.Results))
	for _, item := range raw.Results {
		results = append(results, models.SearchResult{
			Title:         item.Title,
			URL:           item.URL,
			Content:       item.Content,
			PublishedDate: item.PublishedDate,
			Score:         item.Score,
		})
	}

	return &models.SearchResponse{
		Query:      query,
		Results:    results,
		Answer:     raw.Answer,
		Themes:     extractThemes(results),
		Categories: categorizeResults(results),
		Retrieved:  time.Now().UTC(),
	}
}

// callProvider executes one POST /search call against the provider.
func (s *Service) callProvider(ctx context.Context, request *searchRequest) (*searchResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(payload)),
		}
		if isLimitStatus(resp.StatusCode, apiErr.Message) {
			return nil, fmt.Errorf("%w: %s", ErrLimitExceeded, apiErr.Error())
		}
		return nil, apiErr
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// isLimitStatus reports whether a provider response indicates usage-limit
// exhaustion rather than a generic failure. Tavily signals plan exhaustion
// with 432 and rate limiting with 429.
func isLimitStatus(statusCode int, body string) bool {
	if statusCode == http.StatusTooManyRequests || statusCode == 432 {
		return true
	}
	lowered := strings.ToLower(body)
	return strings.Contains(lowered, "usage limit") || strings.Contains(lowered, "quota")
}

// isLimitError reports whether an error carries the limit-exceeded marker.
func isLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLimitExceeded) {
		return true
	}
	lowered := strings.ToLower(err.Error())
	return strings.Contains(lowered, "usage limit") || strings.Contains(lowered, "quota")
}
