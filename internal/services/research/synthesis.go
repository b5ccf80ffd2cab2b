package research

import (
	"sort"

	"github.com/ternarybob/vestigo/internal/models"
)

const (
	maxKeyFindings         = 5
	maxTrendingAngles      = 3
	maxExamplesPerAspect   = 2
	recommendedTopicExtent = 200
)

// synthesize computes the cross-source summary over whichever sources
// succeeded. Sources marked failed simply contribute nothing; an entirely
// empty synthesis is valid.
func synthesize(sources map[models.Source]*models.SourceResult) models.Synthesis {
	out := models.NewSynthesis()

	if web := sources[models.SourceWebSearch]; !web.Failed() && web.Search != nil {
		limit := len(web.Search.Themes)
		if limit > maxKeyFindings {
			limit = maxKeyFindings
		}
		out.KeyFindings = append(out.KeyFindings, web.Search.Themes[:limit]...)
	}

	if news := sources[models.SourceRecentNews]; !news.Failed() && news.News != nil {
		for i, item := range news.News.Filtered {
			if i == maxTrendingAngles {
				break
			}
			out.TrendingAngles = append(out.TrendingAngles, item.Title)
		}
	}

	if comp := sources[models.SourceCompetitorInsights]; !comp.Failed() && comp.Competitors != nil {
		for _, aspect := range sortedAspects(comp.Competitors.Aspects) {
			insight := comp.Competitors.Aspects[aspect]
			if insight == nil || insight.Error != "" {
				continue
			}
			for i, example := range insight.Examples {
				if i == maxExamplesPerAspect {
					break
				}
				out.ContentOpportunities = append(out.ContentOpportunities, models.ContentOpportunity{
					Aspect:      aspect,
					Inspiration: example.Title,
					URL:         example.URL,
				})
			}
		}
	}

	if kb := sources[models.SourceKnowledgeBase]; !kb.Failed() && kb.Knowledge != nil && len(kb.Knowledge.Hits) > 0 {
		topic := truncateTopic(kb.Knowledge.Hits[0].Content)
		out.RecommendedTopics = append(out.RecommendedTopics, models.RecommendedTopic{
			Topic:  topic,
			Source: string(models.SourceKnowledgeBase),
		})
	}

	return out
}

// truncateTopic bounds a knowledge-base excerpt without splitting a rune.
func truncateTopic(content string) string {
	if len(content) <= recommendedTopicExtent {
		return content
	}
	runes := []rune(content)
	if len(runes) <= recommendedTopicExtent {
		return content
	}
	return string(runes[:recommendedTopicExtent])
}

// sortedAspects gives a deterministic aspect order for synthesis output.
func sortedAspects(aspects map[string]*models.AspectInsight) []string {
	names := make([]string, 0, len(aspects))
	for name := range aspects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
