package search

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/vestigo/internal/models"
)

// publishedDateLayouts are tried in order when parsing provider publish dates.
var publishedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 02 Jan 2006 15:04:05 MST",
	"January 2, 2006",
}

// GetNews performs a time-scoped news search and filters results published
// within the last `days` days. Hits with unparsable dates stay in the raw
// result list but are excluded from the filtered set.
func (s *Service) GetNews(ctx context.Context, topic string, days, maxResults int) *models.NewsResponse {
	if days <= 0 {
		days = 7
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	response := &models.NewsResponse{
		Topic:     topic,
		Days:      days,
		Results:   []models.SearchResult{},
		Filtered:  []models.SearchResult{},
		Retrieved: time.Now().UTC(),
	}

	if s.apiKey == "" {
		response.Error = ErrNotConfigured.Error()
		return response
	}

	raw, err := s.callProvider(ctx, &searchRequest{
		Query:         fmt.Sprintf("%s latest news", topic),
		SearchDepth:   string(models.SearchDepthBasic),
		MaxResults:    maxResults,
		IncludeAnswer: true,
		Topic:         "news",
		Days:          days,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("News search failed")
		response.Error = err.Error()
		return response
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	for _, item := range raw.Results {
		result := models.SearchResult{
			Title:         item.Title,
			URL:           item.URL,
			Content:       item.Content,
			PublishedDate: item.PublishedDate,
			Score:         item.Score,
		}
		response.Results = append(response.Results, result)

		published, ok := parsePublishedDate(item.PublishedDate)
		if ok && !published.Before(cutoff) {
			response.Filtered = append(response.Filtered, result)
		}
	}
	response.Answer = raw.Answer

	s.logger.Debug().
		Str("topic", topic).
		Int("days", days).
		Int("raw_count", len(response.Results)).
		Int("filtered_count", len(response.Filtered)).
		Msg("News search completed")

	return response
}

// parsePublishedDate tries the known layouts; ok is false when none match.
func parsePublishedDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
