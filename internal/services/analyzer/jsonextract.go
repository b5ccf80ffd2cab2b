package analyzer

import "encoding/json"

// aiProfile mirrors the JSON object the extraction prompt asks the model for.
// Every field is optional; absent fields degrade to heuristics independently.
type aiProfile struct {
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
}

// extractJSONObject locates the first balanced top-level {...} span in text,
// tolerating commentary the model may add around the object. Braces inside
// quoted strings are skipped. Returns false when no balanced span exists.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// parseAIProfile extracts and decodes the model's JSON response. A nil result
// with no error is impossible; callers treat any error as "AI enhancement
// unavailable" and fall back to heuristics.
func parseAIProfile(text string) (*aiProfile, error) {
	span, ok := extractJSONObject(text)
	if !ok {
		return nil, errNoJSONObject
	}

	var profile aiProfile
	if err := json.Unmarshal([]byte(span), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
