package models

import "time"

// List caps for WebsiteProfile fields. Extractors may propose more; the profile
// is always clamped before it leaves the analyzer.
const (
	MaxServices            = 10
	MaxValues              = 10
	MaxAudienceSegments    = 5
	MaxKeyTopics           = 15
	MaxSellingPoints       = 10
	MaxRecommendedTopics   = 10
	MaxDifferentiators     = 10
	MaxCompetitors         = 10
	MaxPainPoints          = 10
	MaxTechnologies        = 10
	MaxPartners            = 10
	MaxRawResultsPerSearch = 3
)

// WebsiteProfile is the synthesized organization-analysis output. Every list
// field is non-nil so it marshals as [] rather than being omitted; free-text
// fields marshal as empty strings when nothing could be extracted. A profile is
// superseded, never merged, by the next successful analysis run.
type WebsiteProfile struct {
	SourceURL  string    `json:"website_url"`
	Domain     string    `json:"domain"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	CompanyOverview          string   `json:"company_overview"`
	Industry                 string   `json:"industry"`
	Services                 []string `json:"services"`
	Values                   []string `json:"values"`
	TargetAudience           []string `json:"target_audience"`
	KeyTopics                []string `json:"key_topics"`
	UniqueSellingPoints      []string `json:"unique_selling_points"`
	ContentStrategyInsights  string   `json:"content_strategy_insights"`
	RecommendedContentTopics []string `json:"recommended_content_topics"`
	BrandPersonality         string   `json:"brand_personality"`
	KeyDifferentiators       []string `json:"key_differentiators"`
	Competitors              []string `json:"competitors"`
	MarketPositioning        string   `json:"market_positioning"`
	CustomerPainPoints       []string `json:"customer_pain_points"`
	TechnologyStack          []string `json:"technology_stack"`
	PartnershipEcosystem     []string `json:"partnership_ecosystem"`

	// RawResults keeps a short excerpt of the underlying search hits for
	// traceability.
	RawResults []SearchResult `json:"raw_results"`
}

// NewWebsiteProfile returns an empty profile with all list fields initialized,
// so downstream persistence mapping is total.
func NewWebsiteProfile(sourceURL, domain string) *WebsiteProfile {
	return &WebsiteProfile{
		SourceURL:                sourceURL,
		Domain:                   domain,
		AnalyzedAt:               time.Now().UTC(),
		Services:                 []string{},
		Values:                   []string{},
		TargetAudience:           []string{},
		KeyTopics:                []string{},
		UniqueSellingPoints:      []string{},
		RecommendedContentTopics: []string{},
		KeyDifferentiators:       []string{},
		Competitors:              []string{},
		CustomerPainPoints:       []string{},
		TechnologyStack:          []string{},
		PartnershipEcosystem:     []string{},
		RawResults:               []SearchResult{},
	}
}

// Clamp truncates every list field to its cap and replaces nil slices with
// empty ones. The profile is never rejected wholesale; oversized extractor
// output is simply cut.
func (p *WebsiteProfile) Clamp() {
	p.Services = clampList(p.Services, MaxServices)
	p.Values = clampList(p.Values, MaxValues)
	p.TargetAudience = clampList(p.TargetAudience, MaxAudienceSegments)
	p.KeyTopics = clampList(p.KeyTopics, MaxKeyTopics)
	p.UniqueSellingPoints = clampList(p.UniqueSellingPoints, MaxSellingPoints)
	p.RecommendedContentTopics = clampList(p.RecommendedContentTopics, MaxRecommendedTopics)
	p.KeyDifferentiators = clampList(p.KeyDifferentiators, MaxDifferentiators)
	p.Competitors = clampList(p.Competitors, MaxCompetitors)
	p.CustomerPainPoints = clampList(p.CustomerPainPoints, MaxPainPoints)
	p.TechnologyStack = clampList(p.TechnologyStack, MaxTechnologies)
	p.PartnershipEcosystem = clampList(p.PartnershipEcosystem, MaxPartners)
	if p.RawResults == nil {
		p.RawResults = []SearchResult{}
	}
}

func clampList(in []string, max int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > max {
		return in[:max]
	}
	return in
}
