package interfaces

import (
	"context"

	"github.com/ternarybob/vestigo/internal/models"
)

// ProfileStorage is the analysis-persistence collaborator: one profile record
// per organization, superseded by each successful run. The pipeline itself
// never holds a reference to it; wiring happens at the application layer.
type ProfileStorage interface {
	Get(ctx context.Context, orgID string) (*models.ProfileRecord, error)
	Upsert(ctx context.Context, record *models.ProfileRecord) error
	SetStatus(ctx context.Context, orgID string, status models.AnalysisStatus, message string) error
	List(ctx context.Context) ([]*models.ProfileRecord, error)
}
