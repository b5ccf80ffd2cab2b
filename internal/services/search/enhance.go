package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ternarybob/vestigo/internal/models"
)

const (
	maxThemes     = 10
	minThemeWord  = 5
	snippetLength = 200
)

// stopwords excluded from theme extraction. Small curated set; longer content
// words carry the signal.
var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "their": true, "there": true,
	"these": true, "thing": true, "think": true, "those": true, "through": true,
	"under": true, "until": true, "where": true, "which": true, "while": true,
	"would": true, "could": true, "should": true, "because": true, "before": true,
	"being": true, "between": true, "during": true, "every": true, "first": true,
	"other": true, "since": true, "still": true, "however": true, "without": true,
	"within": true, "including": true, "according": true, "search": true,
	"results": true, "website": true, "online": true, "latest": true, "https": true,
}

// resultCategories in priority order; the first matching category wins.
var resultCategories = []struct {
	name     string
	keywords []string
}{
	{"news", []string{"news", "press", "announce", "update", "release"}},
	{"guides", []string{"guide", "how-to", "how to", "tutorial", "tips"}},
	{"research", []string{"research", "study", "report", "analysis", "whitepaper"}},
	{"articles", []string{"article", "blog", "post", "insight"}},
}

// extractThemes returns the most frequent content words (>= 5 characters,
// stopwords excluded) across result titles and snippets, ranked by frequency
// descending with ties broken by first-seen order. At most 10 themes.
func extractThemes(results []models.SearchResult) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	position := 0

	collect := func(text string) {
		for _, word := range tokenize(text) {
			if len(word) < minThemeWord || stopwords[word] {
				continue
			}
			if _, seen := counts[word]; !seen {
				firstSeen[word] = position
				position++
			}
			counts[word]++
		}
	}

	for _, result := range results {
		collect(result.Title)
		collect(result.Content)
	}

	themes := make([]string, 0, len(counts))
	for word := range counts {
		themes = append(themes, word)
	}
	sort.SliceStable(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return firstSeen[themes[i]] < firstSeen[themes[j]]
	})

	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	return themes
}

// categorizeResults assigns each result to one of news, guides, research,
// articles or other by keyword match against its title and URL, checked in
// that priority order.
func categorizeResults(results []models.SearchResult) map[string][]models.SearchResult {
	categories := make(map[string][]models.SearchResult)

	for _, result := range results {
		haystack := strings.ToLower(result.Title + " " + result.URL)
		assigned := false
		for _, category := range resultCategories {
			for _, keyword := range category.keywords {
				if strings.Contains(haystack, keyword) {
					categories[category.name] = append(categories[category.name], result)
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
		if !assigned {
			categories["other"] = append(categories["other"], result)
		}
	}

	return categories
}

// tokenize lowercases text and splits it on non-letter runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// truncateSnippet cuts content to the standard snippet length, never splitting
// a rune.
func truncateSnippet(content string) string {
	if len(content) <= snippetLength {
		return content
	}
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength])
}
