package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/vestigo/internal/models"
)

const maxCompetitorExamples = 5

// defaultAspects are the competitor angles examined when the caller passes
// none.
var defaultAspects = []string{"content marketing", "blog topics", "social media"}

// AnalyzeCompetitors issues one targeted query per aspect, excluding the
// company's own domain, and collects up to five example hits plus the
// synthesized answer per aspect. One aspect's failure never blocks the others.
func (s *Service) AnalyzeCompetitors(ctx context.Context, company, industry string, aspects []string) *models.CompetitorAnalysis {
	if len(aspects) == 0 {
		aspects = defaultAspects
	}

	analysis := &models.CompetitorAnalysis{
		Company:   company,
		Industry:  industry,
		Aspects:   make(map[string]*models.AspectInsight, len(aspects)),
		Retrieved: time.Now().UTC(),
	}

	if s.apiKey == "" {
		analysis.Error = ErrNotConfigured.Error()
		return analysis
	}

	ownDomain := guessCompanyDomain(company)

	for _, aspect := range aspects {
		query := buildAspectQuery(company, industry, aspect)
		insight := &models.AspectInsight{
			Query:    query,
			Examples: []models.CompetitorExample{},
		}
		analysis.Aspects[aspect] = insight

		response := s.Search(ctx, query, models.SearchOptions{
			Depth:          models.SearchDepthBasic,
			MaxResults:     maxCompetitorExamples,
			ExcludeDomains: []string{ownDomain},
		})
		if response.Error != "" {
			s.logger.Warn().
				Str("company", company).
				Str("aspect", aspect).
				Str("error", response.Error).
				Msg("Competitor aspect search failed")
			insight.Error = response.Error
			continue
		}

		insight.Answer = response.Answer
		for i, result := range response.Results {
			if i >= maxCompetitorExamples {
				break
			}
			insight.Examples = append(insight.Examples, models.CompetitorExample{
				Title:   result.Title,
				URL:     result.URL,
				Snippet: truncateSnippet(result.Content),
			})
		}
	}

	return analysis
}

func buildAspectQuery(company, industry, aspect string) string {
	if industry != "" {
		return fmt.Sprintf("%s competitors %s %s", company, industry, aspect)
	}
	return fmt.Sprintf("%s competitors %s", company, aspect)
}

// guessCompanyDomain derives a best-effort own-domain exclusion from the
// company name. Crude, but only used to keep the company's own pages out of
// competitor results.
func guessCompanyDomain(company string) string {
	cleaned := strings.ToLower(strings.TrimSpace(company))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return cleaned + ".com"
}
