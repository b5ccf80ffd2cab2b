package search

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider classification.
var (
	// ErrNotConfigured marks a missing API credential. Surfaced once,
	// immediately; never retried internally.
	ErrNotConfigured = errors.New("search provider not configured")

	// ErrLimitExceeded marks provider usage-limit exhaustion, distinguished
	// from generic provider errors so callers can short-circuit.
	ErrLimitExceeded = errors.New("search provider usage limit exceeded")
)

// APIError represents a non-2xx response from the search API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error (status %d): %s", e.StatusCode, e.Message)
}

// searchRequest is the wire format of a Tavily search call.
type searchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	IncludeAnswer  bool     `json:"include_answer,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	Days           int      `json:"days,omitempty"`
}

// searchResponse is the wire format of a Tavily search response.
type searchResponse struct {
	Query        string             `json:"query"`
	Answer       string             `json:"answer,omitempty"`
	Results      []searchResultItem `json:"results"`
	ResponseTime float64            `json:"response_time,omitempty"`
}

type searchResultItem struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
}
