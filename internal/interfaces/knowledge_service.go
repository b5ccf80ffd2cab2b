package interfaces

import (
	"context"

	"github.com/ternarybob/vestigo/internal/models"
)

// KnowledgeService is the optional retrieval/knowledge-base provider. It is
// best-effort: callers record an error outcome and carry on without it.
type KnowledgeService interface {
	// Query retrieves up to maxResults knowledge-base hits for a topic.
	Query(ctx context.Context, topic string, maxResults int) (*models.KnowledgeResponse, error)

	// Configured reports whether credentials are present. An unconfigured
	// service fails every Query with a permanent "not configured" error.
	Configured() bool
}
