package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
	"github.com/ternarybob/vestigo/internal/prompts"
)

var (
	// ErrNotConfigured indicates the search provider has no credentials.
	ErrNotConfigured = errors.New("search provider not configured")

	// ErrLimitExceeded indicates the provider quota is exhausted; no further
	// calls were spent after the probe.
	ErrLimitExceeded = errors.New("search provider limit exceeded")

	errNoJSONObject = errors.New("no JSON object found in model response")
)

const resultSnippetLimit = 300

// Service analyzes an organization's website into a structured profile:
// provider probe, four domain-scoped searches, AI extraction with heuristic
// fallback per field.
type Service struct {
	searcher   interfaces.SearchService
	llm        interfaces.LLMService
	config     common.AnalyzerConfig
	promptsDir string
	httpClient *http.Client
	logger     arbor.ILogger
}

var _ interfaces.AnalyzerService = (*Service)(nil)

// Option customizes Service construction.
type Option func(*Service)

// WithHTTPClient replaces the homepage fetch client. Used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// NewService creates a website analyzer.
func NewService(searcher interfaces.SearchService, llm interfaces.LLMService, config *common.Config, logger arbor.ILogger, opts ...Option) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}

	service := &Service{
		searcher:   searcher,
		llm:        llm,
		config:     config.Analyzer,
		promptsDir: config.Prompts.Dir,
		httpClient: &http.Client{Timeout: config.Analyzer.HomepageTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// domainSearch describes one of the four scoped searches feeding the profile.
type domainSearch struct {
	label string
	query string
	depth models.SearchDepth
	max   int
}

// AnalyzeWebsite builds a WebsiteProfile for the given URL. Returns
// ErrLimitExceeded or ErrNotConfigured (via errors.Is) when the provider probe
// reports those conditions; any search failure mid-run fails the analysis. AI
// extraction failure never does — affected fields fall back to heuristics.
func (s *Service) AnalyzeWebsite(ctx context.Context, rawURL, orgName string) (*models.WebsiteProfile, error) {
	websiteURL := common.NormalizeWebsiteURL(rawURL)
	domain, err := common.DeriveDomain(websiteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid website URL %q: %w", rawURL, err)
	}

	name := orgName
	if name == "" {
		name = domain
	}

	status := s.searcher.CheckStatus(ctx)
	switch status.Code {
	case models.ProviderStatusOK:
	case models.ProviderStatusLimitExceeded:
		return nil, fmt.Errorf("%w: %s", ErrLimitExceeded, status.Message)
	case models.ProviderStatusNotConfigured:
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, status.Message)
	default:
		return nil, fmt.Errorf("search provider unavailable: %s", status.Message)
	}

	searches := []domainSearch{
		{"overview", fmt.Sprintf("%s company overview products services", name), models.SearchDepthAdvanced, 10},
		{"industry", fmt.Sprintf("%s industry market position", name), models.SearchDepthBasic, 5},
		{"values", fmt.Sprintf("%s mission values about", name), models.SearchDepthBasic, 5},
		{"content", fmt.Sprintf("%s blog news content topics", name), models.SearchDepthBasic, 10},
	}

	responses := make(map[string]*models.SearchResponse, len(searches))
	for _, search := range searches {
		resp := s.searcher.Search(ctx, search.query, models.SearchOptions{
			Depth:          search.depth,
			MaxResults:     search.max,
			IncludeDomains: []string{domain},
		})
		if resp.Error != "" {
			return nil, fmt.Errorf("search %q failed for %s: %s", search.label, websiteURL, resp.Error)
		}
		responses[search.label] = resp
	}

	var snapshot *homepageSnapshot
	if s.config.FetchHomepage {
		snapshot, err = fetchHomepage(ctx, s.httpClient, websiteURL, s.config.MaxHomepageSize)
		if err != nil {
			s.logger.Warn().Str("url", websiteURL).Err(err).Msg("Homepage snapshot skipped")
			snapshot = nil
		}
	}

	ai := s.extractWithAI(ctx, name, websiteURL, searches, responses, snapshot)

	profile := s.buildProfile(websiteURL, domain, searches, responses, snapshot, ai)

	s.logger.Info().
		Str("url", websiteURL).
		Str("domain", domain).
		Bool("ai_extracted", ai != nil).
		Int("raw_results", len(profile.RawResults)).
		Msg("Website analysis completed")

	return profile, nil
}

// extractWithAI renders the extraction prompt over the aggregated search text
// and decodes the model's JSON. Any failure returns nil: the AI step degrades,
// it never fails the analysis.
func (s *Service) extractWithAI(ctx context.Context, name, websiteURL string, searches []domainSearch, responses map[string]*models.SearchResponse, snapshot *homepageSnapshot) *aiProfile {
	if s.llm == nil {
		s.logger.Debug().Msg("No generation provider wired, using heuristics only")
		return nil
	}

	tmpl, err := prompts.Get("profile_extraction", s.promptsDir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Extraction prompt unavailable, using heuristics only")
		return nil
	}

	prompt := tmpl.Render(map[string]string{
		"company":        name,
		"website":        websiteURL,
		"search_context": buildContextBlock(searches, responses, snapshot),
	})

	text, err := s.llm.Generate(ctx, prompt, interfaces.GenerateOptions{
		Temperature: tmpl.Temperature,
		MaxTokens:   tmpl.MaxTokens,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI extraction failed, using heuristics only")
		return nil
	}

	profile, err := parseAIProfile(text)
	if err != nil {
		s.logger.Warn().Err(err).Int("response_len", len(text)).Msg("AI response not decodable, using heuristics only")
		return nil
	}
	return profile
}

// buildProfile merges AI output and heuristics field by field. Every list is
// clamped to its cap before return.
func (s *Service) buildProfile(websiteURL, domain string, searches []domainSearch, responses map[string]*models.SearchResponse, snapshot *homepageSnapshot, ai *aiProfile) *models.WebsiteProfile {
	rawText := collectRawText(responses, snapshot)
	corpus := strings.ToLower(rawText)
	if ai == nil {
		ai = &aiProfile{}
	}

	profile := models.NewWebsiteProfile(websiteURL, domain)
	profile.AnalyzedAt = time.Now().UTC()

	profile.CompanyOverview = ai.CompanyOverview
	if profile.CompanyOverview == "" {
		profile.CompanyOverview = firstResultSnippet(responses["overview"])
	}

	profile.Industry = ai.Industry
	if profile.Industry == "" {
		profile.Industry = heuristicIndustry(corpus)
	}

	profile.Services = fallbackList(ai.Services, func() []string { return heuristicServices(corpus) })
	profile.Values = fallbackList(ai.Values, func() []string { return heuristicValues(corpus) })
	profile.TargetAudience = fallbackList(ai.TargetAudience, func() []string { return heuristicAudience(corpus) })
	profile.KeyTopics = fallbackList(ai.KeyTopics, func() []string { return mergeThemes(responses["overview"], responses["content"]) })
	profile.UniqueSellingPoints = nonNil(ai.UniqueSellingPoints)
	profile.RecommendedContentTopics = fallbackList(ai.RecommendedContentTopics, func() []string { return themesOf(responses["content"]) })
	profile.KeyDifferentiators = nonNil(ai.KeyDifferentiators)
	profile.Competitors = fallbackList(ai.Competitors, func() []string { return heuristicCompetitors(rawText) })
	profile.CustomerPainPoints = nonNil(ai.CustomerPainPoints)
	profile.TechnologyStack = nonNil(ai.TechnologyStack)
	profile.PartnershipEcosystem = nonNil(ai.PartnershipEcosystem)

	profile.ContentStrategyInsights = ai.ContentStrategyInsights
	profile.BrandPersonality = ai.BrandPersonality
	profile.MarketPositioning = ai.MarketPositioning

	for _, label := range []string{"overview", "content"} {
		if resp := responses[label]; resp != nil {
			limit := models.MaxRawResultsPerSearch
			if limit > len(resp.Results) {
				limit = len(resp.Results)
			}
			profile.RawResults = append(profile.RawResults, resp.Results[:limit]...)
		}
	}

	profile.Clamp()
	return profile
}

// buildContextBlock renders the four search responses (and homepage snapshot,
// when present) as the research context for the extraction prompt.
func buildContextBlock(searches []domainSearch, responses map[string]*models.SearchResponse, snapshot *homepageSnapshot) string {
	var b strings.Builder
	for _, search := range searches {
		resp := responses[search.label]
		if resp == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n", search.label))
		if resp.Answer != "" {
			b.WriteString(resp.Answer + "\n")
		}
		for _, result := range resp.Results {
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", result.Title, result.URL, truncateText(result.Content, resultSnippetLimit)))
		}
		b.WriteString("\n")
	}
	if snapshot != nil {
		b.WriteString(snapshot.contextBlock())
	}
	return b.String()
}

func collectRawText(responses map[string]*models.SearchResponse, snapshot *homepageSnapshot) string {
	var b strings.Builder
	for _, resp := range responses {
		if resp == nil {
			continue
		}
		if resp.Answer != "" {
			b.WriteString(resp.Answer + " ")
		}
		for _, result := range resp.Results {
			b.WriteString(result.Title + " " + result.Content + " ")
		}
	}
	if snapshot != nil {
		b.WriteString(snapshot.Title + " " + snapshot.Description + " " + strings.Join(snapshot.Headings, " ") + " " + snapshot.Excerpt)
	}
	return b.String()
}

func firstResultSnippet(resp *models.SearchResponse) string {
	if resp == nil || len(resp.Results) == 0 {
		return ""
	}
	return truncateText(resp.Results[0].Content, resultSnippetLimit)
}

func themesOf(resp *models.SearchResponse) []string {
	if resp == nil {
		return nil
	}
	return resp.Themes
}

func mergeThemes(responses ...*models.SearchResponse) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, resp := range responses {
		for _, theme := range themesOf(resp) {
			if !seen[theme] {
				seen[theme] = true
				merged = append(merged, theme)
			}
		}
	}
	return merged
}

func fallbackList(primary []string, fallback func() []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return nonNil(fallback())
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
