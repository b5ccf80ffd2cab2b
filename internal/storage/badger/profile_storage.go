package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ProfileStorage implements the ProfileStorage interface for Badger
type ProfileStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.ProfileStorage = (*ProfileStorage)(nil)

// NewProfileStorage creates a new ProfileStorage instance
func NewProfileStorage(db *BadgerDB, logger arbor.ILogger) *ProfileStorage {
	return &ProfileStorage{
		db:     db,
		logger: logger,
	}
}

// Get loads the analysis record for one organization.
func (s *ProfileStorage) Get(ctx context.Context, orgID string) (*models.ProfileRecord, error) {
	var record models.ProfileRecord
	if err := s.db.Store().Get(orgID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("profile not found for organization: %s", orgID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &record, nil
}

// Upsert stores the record, superseding any previous run for the organization.
func (s *ProfileStorage) Upsert(ctx context.Context, record *models.ProfileRecord) error {
	if record.OrganizationID == "" {
		return fmt.Errorf("organization ID is required")
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.db.Store().Upsert(record.OrganizationID, record); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// SetStatus transitions the record's lifecycle flag, creating a stub record
// when none exists yet (a processing marker precedes the first profile).
func (s *ProfileStorage) SetStatus(ctx context.Context, orgID string, status models.AnalysisStatus, message string) error {
	var record models.ProfileRecord
	err := s.db.Store().Get(orgID, &record)
	if err == badgerhold.ErrNotFound {
		record = models.ProfileRecord{
			OrganizationID: orgID,
			CreatedAt:      time.Now().UTC(),
		}
	} else if err != nil {
		return fmt.Errorf("failed to load profile for status update: %w", err)
	}

	record.Status = status
	record.Error = message
	record.UpdatedAt = time.Now().UTC()

	if err := s.db.Store().Upsert(orgID, &record); err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}

	s.logger.Debug().
		Str("org_id", orgID).
		Str("status", string(status)).
		Msg("Profile status updated")
	return nil
}

// List returns all stored records.
func (s *ProfileStorage) List(ctx context.Context) ([]*models.ProfileRecord, error) {
	var records []models.ProfileRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	out := make([]*models.ProfileRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}
