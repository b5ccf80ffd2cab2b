package models

import "time"

// KnowledgeHit is one retrieval hit from the knowledge-base provider.
type KnowledgeHit struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// KnowledgeResponse aggregates a knowledge-base lookup. The provider is
// optional and best-effort; callers treat any error as a missing source.
type KnowledgeResponse struct {
	Topic     string         `json:"topic"`
	Hits      []KnowledgeHit `json:"hits"`
	Retrieved time.Time      `json:"retrieved"`
}
