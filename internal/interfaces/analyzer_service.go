package interfaces

import (
	"context"

	"github.com/ternarybob/vestigo/internal/models"
)

// AnalyzerService produces a structured profile from an organization's
// website. Implementations surface quota exhaustion and missing credentials
// as distinguishable errors so callers can stop spending provider calls.
type AnalyzerService interface {
	AnalyzeWebsite(ctx context.Context, rawURL, orgName string) (*models.WebsiteProfile, error)
}
