package models

import (
	"encoding/json"
	"time"
)

// Source names one external data provider contributing to a ResearchBundle.
type Source string

const (
	SourceWebSearch          Source = "web_search"
	SourceRecentNews         Source = "recent_news"
	SourceCompetitorInsights Source = "competitor_insights"
	SourceKnowledgeBase      Source = "knowledge_base"
)

// SourceResult holds either one source's data or its captured error. Exactly
// one of the payload fields is set on success; Err is set on failure.
type SourceResult struct {
	Err         string
	Search      *SearchResponse
	News        *NewsResponse
	Competitors *CompetitorAnalysis
	Knowledge   *KnowledgeResponse
}

// MarshalJSON emits the payload on success or {"error": message} on failure, so
// the bundle's sources map always has every attempted key present.
func (r *SourceResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	switch {
	case r.Search != nil:
		return json.Marshal(r.Search)
	case r.News != nil:
		return json.Marshal(r.News)
	case r.Competitors != nil:
		return json.Marshal(r.Competitors)
	case r.Knowledge != nil:
		return json.Marshal(r.Knowledge)
	}
	return []byte("null"), nil
}

// Failed reports whether the source contributed no usable data.
func (r *SourceResult) Failed() bool {
	return r == nil || r.Err != ""
}

// ContentOpportunity is one competitor-derived content idea, tagged with the
// aspect it originated from.
type ContentOpportunity struct {
	Aspect      string `json:"aspect"`
	Inspiration string `json:"inspiration"`
	URL         string `json:"url"`
}

// RecommendedTopic is a synthesis-level topic suggestion with provenance.
type RecommendedTopic struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
}

// Synthesis is the cross-source summary computed over whichever sources
// succeeded. All lists are non-nil; an entirely empty synthesis is valid.
type Synthesis struct {
	KeyFindings          []string             `json:"key_findings"`
	ContentOpportunities []ContentOpportunity `json:"content_opportunities"`
	TrendingAngles       []string             `json:"trending_angles"`
	RecommendedTopics    []RecommendedTopic   `json:"recommended_topics"`
}

// NewSynthesis returns an empty synthesis with all lists initialized.
func NewSynthesis() Synthesis {
	return Synthesis{
		KeyFindings:          []string{},
		ContentOpportunities: []ContentOpportunity{},
		TrendingAngles:       []string{},
		RecommendedTopics:    []RecommendedTopic{},
	}
}

// ResearchBundle is the output of a comprehensive research run. Partial source
// failure never prevents synthesis; a bundle where every source failed is a
// valid, non-error result.
type ResearchBundle struct {
	Topic        string                   `json:"topic"`
	ResearchedAt time.Time                `json:"researched_at"`
	Sources      map[Source]*SourceResult `json:"sources"`
	Synthesis    Synthesis                `json:"synthesis"`
}

// OrganizationContext carries the organization fields research queries are
// scoped with. All fields optional.
type OrganizationContext struct {
	Name     string `json:"name,omitempty"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
}
