package interfaces

import (
	"context"

	"github.com/ternarybob/vestigo/internal/models"
)

// SearchService is the web search provider used by the analyzer and research
// orchestrator. Calls never return Go errors for provider failures: a failed
// call yields an error-tagged response so one bad source cannot abort a
// multi-source operation.
type SearchService interface {
	// Search performs a cached web search.
	Search(ctx context.Context, query string, opts models.SearchOptions) *models.SearchResponse

	// GetNews performs a time-scoped search and filters results published
	// within the last `days` days.
	GetNews(ctx context.Context, topic string, days, maxResults int) *models.NewsResponse

	// AnalyzeCompetitors issues one targeted query per aspect, excluding the
	// company's own domain. Aspect failures are recorded independently.
	AnalyzeCompetitors(ctx context.Context, company, industry string, aspects []string) *models.CompetitorAnalysis

	// CheckStatus issues a minimal 1-result probe to detect quota exhaustion
	// or auth failure before committing to a larger workflow.
	CheckStatus(ctx context.Context) models.ProviderStatus
}
