package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/vestigo/internal/models"
)

func TestExtractThemes_FrequencyRanking(t *testing.T) {
	results := []models.SearchResult{
		{Content: "automation automation automation robotics robotics welding"},
	}

	themes := extractThemes(results)

	assert.Equal(t, []string{"automation", "robotics", "welding"}, themes)
}

func TestExtractThemes_TieBrokenByFirstSeen(t *testing.T) {
	results := []models.SearchResult{
		{Content: "zebra alpha zebra alpha"},
	}

	themes := extractThemes(results)

	// Equal frequency: zebra appeared first, so it ranks first.
	assert.Equal(t, []string{"zebra", "alpha"}, themes)
}

func TestExtractThemes_ShortAndStopwordsExcluded(t *testing.T) {
	results := []models.SearchResult{
		{Content: "the and for robotics about which robotics data"},
	}

	themes := extractThemes(results)

	assert.Equal(t, []string{"robotics"}, themes)
}

func TestExtractThemes_CappedAtTen(t *testing.T) {
	results := []models.SearchResult{
		{Content: "alpha1 bravo2"},
		{Content: "wordaa wordbb wordcc worddd wordee wordff wordgg wordhh wordii wordjj wordkk wordll"},
	}

	themes := extractThemes(results)

	assert.Len(t, themes, 10)
}

func TestExtractThemes_Empty(t *testing.T) {
	assert.Empty(t, extractThemes(nil))
	assert.Empty(t, extractThemes([]models.SearchResult{}))
}

func TestCategorizeResults(t *testing.T) {
	tests := []struct {
		name     string
		result   models.SearchResult
		category string
	}{
		{"news by title", models.SearchResult{Title: "Company News Roundup", URL: "https://x.com/a"}, "news"},
		{"news by url", models.SearchResult{Title: "Quarterly", URL: "https://x.com/press/q1"}, "news"},
		{"guide", models.SearchResult{Title: "A Beginner Guide", URL: "https://x.com/b"}, "guides"},
		{"research", models.SearchResult{Title: "Market Study 2026", URL: "https://x.com/c"}, "research"},
		{"article", models.SearchResult{Title: "Thoughts", URL: "https://x.com/blog/d"}, "articles"},
		{"other", models.SearchResult{Title: "Homepage", URL: "https://x.com"}, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories := categorizeResults([]models.SearchResult{tt.result})
			assert.Len(t, categories[tt.category], 1, "expected result in category %s", tt.category)
		})
	}
}

func TestCategorizeResults_PriorityOrder(t *testing.T) {
	// Matches both news and guides keywords; news is checked first and wins.
	result := models.SearchResult{Title: "News guide", URL: "https://x.com/a"}

	categories := categorizeResults([]models.SearchResult{result})

	assert.Len(t, categories["news"], 1)
	assert.Empty(t, categories["guides"])
}

func TestTruncateSnippet(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	assert.Len(t, truncateSnippet(string(long)), snippetLength)
	assert.Equal(t, "short", truncateSnippet("short"))
}

func TestTruncateSnippet_KeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 250)

	got := truncateSnippet(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", snippetLength), got)
}
