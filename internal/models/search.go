package models

import "time"

// SearchDepth controls the provider cost/latency/quality tradeoff.
type SearchDepth string

const (
	SearchDepthBasic    SearchDepth = "basic"
	SearchDepthAdvanced SearchDepth = "advanced"
)

// SearchOptions configures a single search call.
type SearchOptions struct {
	Depth          SearchDepth `json:"depth"`
	MaxResults     int         `json:"max_results"`
	IncludeDomains []string    `json:"include_domains,omitempty"`
	ExcludeDomains []string    `json:"exclude_domains,omitempty"`
}

// SearchResult is one hit returned by the search provider. Immutable once returned.
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"published_date,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// SearchResponse aggregates a single search call. When Error is non-empty the
// response carries no results.
type SearchResponse struct {
	Query      string                    `json:"query"`
	Results    []SearchResult            `json:"results"`
	Answer     string                    `json:"answer,omitempty"`
	Themes     []string                  `json:"themes,omitempty"`
	Categories map[string][]SearchResult `json:"categories,omitempty"`
	Retrieved  time.Time                 `json:"retrieved"`
	Error      string                    `json:"error,omitempty"`
}

// ErrorSearchResponse builds an error-tagged response for a failed call.
func ErrorSearchResponse(query, message string) *SearchResponse {
	return &SearchResponse{
		Query:     query,
		Results:   []SearchResult{},
		Retrieved: time.Now().UTC(),
		Error:     message,
	}
}

// NewsResponse is the output of a time-scoped news search. Results holds the raw
// provider hits; Filtered holds only hits whose publish date parsed and falls
// within the requested window.
type NewsResponse struct {
	Topic     string         `json:"topic"`
	Days      int            `json:"days"`
	Results   []SearchResult `json:"results"`
	Filtered  []SearchResult `json:"filtered"`
	Answer    string         `json:"answer,omitempty"`
	Retrieved time.Time      `json:"retrieved"`
	Error     string         `json:"error,omitempty"`
}

// CompetitorExample is one example hit collected for a competitor aspect.
type CompetitorExample struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// AspectInsight holds the findings for a single competitor-analysis aspect.
// Aspect failures are recorded independently via Error.
type AspectInsight struct {
	Query    string              `json:"query"`
	Answer   string              `json:"answer,omitempty"`
	Examples []CompetitorExample `json:"examples"`
	Error    string              `json:"error,omitempty"`
}

// CompetitorAnalysis aggregates per-aspect competitor findings for a company.
type CompetitorAnalysis struct {
	Company   string                    `json:"company"`
	Industry  string                    `json:"industry,omitempty"`
	Aspects   map[string]*AspectInsight `json:"aspects"`
	Retrieved time.Time                 `json:"retrieved"`
	Error     string                    `json:"error,omitempty"`
}

// ProviderStatusCode classifies the outcome of a provider status probe.
type ProviderStatusCode string

const (
	ProviderStatusOK            ProviderStatusCode = "ok"
	ProviderStatusNotConfigured ProviderStatusCode = "not_configured"
	ProviderStatusLimitExceeded ProviderStatusCode = "limit_exceeded"
	ProviderStatusError         ProviderStatusCode = "error"
)

// ProviderStatus is the result of a minimal 1-result probe, used to detect quota
// exhaustion or auth failure before committing to a multi-query workflow.
type ProviderStatus struct {
	Code    ProviderStatusCode `json:"code"`
	Message string             `json:"message,omitempty"`
}
