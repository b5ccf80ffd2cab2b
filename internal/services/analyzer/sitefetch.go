package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const homepageExcerptLimit = 1500

// homepageSnapshot is a bounded extract of the organization's own homepage,
// used to enrich both the AI context block and the heuristic corpus. Fetch
// failure degrades the analysis, it never fails it.
type homepageSnapshot struct {
	Title       string
	Description string
	Headings    []string
	Excerpt     string
}

// fetchHomepage downloads at most maxSize bytes of the homepage and extracts
// title, meta description, headings, and a markdown excerpt of the body.
func fetchHomepage(ctx context.Context, client *http.Client, pageURL string, maxSize int) (*homepageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build homepage request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("homepage fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("homepage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read homepage body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse homepage HTML: %w", err)
	}

	snapshot := &homepageSnapshot{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		snapshot.Description = strings.TrimSpace(desc)
	}
	doc.Find("h1, h2").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			snapshot.Headings = append(snapshot.Headings, text)
		}
	})

	// Drop navigation and script noise before markdown conversion.
	doc.Find("script, style, nav, footer").Remove()
	if html, err := doc.Find("body").Html(); err == nil && html != "" {
		converter := md.NewConverter(pageURL, true, nil)
		if markdown, err := converter.ConvertString(html); err == nil {
			snapshot.Excerpt = truncateText(collapseWhitespace(markdown), homepageExcerptLimit)
		}
	}

	return snapshot, nil
}

// contextBlock renders the snapshot as a text section for the AI prompt.
func (s *homepageSnapshot) contextBlock() string {
	var b strings.Builder
	b.WriteString("Homepage:\n")
	if s.Title != "" {
		b.WriteString("Title: " + s.Title + "\n")
	}
	if s.Description != "" {
		b.WriteString("Description: " + s.Description + "\n")
	}
	if len(s.Headings) > 0 {
		b.WriteString("Headings: " + strings.Join(s.Headings, "; ") + "\n")
	}
	if s.Excerpt != "" {
		b.WriteString(s.Excerpt + "\n")
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
