package common

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeWebsiteURL returns the URL with an https scheme prefixed when none
// is present. Normalization is idempotent: an already-normalized URL passes
// through unchanged.
func NormalizeWebsiteURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	return trimmed
}

// DeriveDomain extracts the bare domain from a website URL, stripping any
// leading "www." so that "example.com", "https://example.com" and
// "https://www.example.com/about" all resolve to "example.com".
func DeriveDomain(rawURL string) (string, error) {
	normalized := NormalizeWebsiteURL(rawURL)
	if normalized == "" {
		return "", fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}

	host := parsed.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host, nil
}
