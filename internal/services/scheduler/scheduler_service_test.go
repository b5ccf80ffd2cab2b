package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/models"
)

type fakeAnalyzer struct {
	profiles map[string]*models.WebsiteProfile
	err      error
	calls    []string
}

func (f *fakeAnalyzer) AnalyzeWebsite(_ context.Context, rawURL, _ string) (*models.WebsiteProfile, error) {
	f.calls = append(f.calls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	if profile, ok := f.profiles[rawURL]; ok {
		return profile, nil
	}
	return models.NewWebsiteProfile(rawURL, ""), nil
}

type memStorage struct {
	records map[string]*models.ProfileRecord
}

func newMemStorage() *memStorage {
	return &memStorage{records: make(map[string]*models.ProfileRecord)}
}

func (m *memStorage) Get(_ context.Context, orgID string) (*models.ProfileRecord, error) {
	record, ok := m.records[orgID]
	if !ok {
		return nil, errors.New("not found")
	}
	return record, nil
}

func (m *memStorage) Upsert(_ context.Context, record *models.ProfileRecord) error {
	copied := *record
	m.records[record.OrganizationID] = &copied
	return nil
}

func (m *memStorage) SetStatus(_ context.Context, orgID string, status models.AnalysisStatus, message string) error {
	record, ok := m.records[orgID]
	if !ok {
		record = &models.ProfileRecord{OrganizationID: orgID}
		m.records[orgID] = record
	}
	record.Status = status
	record.Error = message
	return nil
}

func (m *memStorage) List(_ context.Context) ([]*models.ProfileRecord, error) {
	var out []*models.ProfileRecord
	for _, record := range m.records {
		out = append(out, record)
	}
	return out, nil
}

func schedulerFixture(analyzer *fakeAnalyzer, storage *memStorage, now time.Time) *Service {
	config := common.SchedulerConfig{
		Enabled:         true,
		RefreshInterval: 24 * time.Hour,
	}
	return NewService(analyzer, storage, config, common.GetLogger(), WithClock(func() time.Time { return now }))
}

func TestRefreshStaleProfiles_OnlyStaleRefreshed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := newMemStorage()
	storage.records["stale"] = &models.ProfileRecord{
		OrganizationID: "stale",
		Website:        "https://stale.com",
		Status:         models.AnalysisStatusCompleted,
		UpdatedAt:      now.Add(-48 * time.Hour),
	}
	storage.records["fresh"] = &models.ProfileRecord{
		OrganizationID: "fresh",
		Website:        "https://fresh.com",
		Status:         models.AnalysisStatusCompleted,
		UpdatedAt:      now.Add(-1 * time.Hour),
	}

	analyzer := &fakeAnalyzer{}
	service := schedulerFixture(analyzer, storage, now)

	outcomes := service.RefreshStaleProfiles(context.Background())

	require.Len(t, outcomes, 1)
	assert.Equal(t, "stale", outcomes[0].OrganizationID)
	assert.Equal(t, models.AnalysisStatusCompleted, outcomes[0].Status)
	assert.Equal(t, []string{"https://stale.com"}, analyzer.calls)
	assert.Equal(t, models.AnalysisStatusCompleted, storage.records["stale"].Status)
}

func TestRefreshStaleProfiles_FailureRecordsStatus(t *testing.T) {
	now := time.Now().UTC()
	storage := newMemStorage()
	storage.records["org-1"] = &models.ProfileRecord{
		OrganizationID: "org-1",
		Website:        "https://acme.com",
		Status:         models.AnalysisStatusCompleted,
		UpdatedAt:      now.Add(-48 * time.Hour),
	}

	analyzer := &fakeAnalyzer{err: errors.New("provider down")}
	service := schedulerFixture(analyzer, storage, now)

	outcomes := service.RefreshStaleProfiles(context.Background())

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.AnalysisStatusFailed, outcomes[0].Status)
	assert.Equal(t, "provider down", outcomes[0].Error)
	assert.Equal(t, models.AnalysisStatusFailed, storage.records["org-1"].Status)
	assert.Equal(t, "provider down", storage.records["org-1"].Error)
}

func TestRefreshStaleProfiles_SkipsInFlightAndWebsiteless(t *testing.T) {
	now := time.Now().UTC()
	storage := newMemStorage()
	storage.records["processing"] = &models.ProfileRecord{
		OrganizationID: "processing",
		Website:        "https://a.com",
		Status:         models.AnalysisStatusProcessing,
		UpdatedAt:      now.Add(-48 * time.Hour),
	}
	storage.records["no-site"] = &models.ProfileRecord{
		OrganizationID: "no-site",
		Status:         models.AnalysisStatusCompleted,
		UpdatedAt:      now.Add(-48 * time.Hour),
	}

	analyzer := &fakeAnalyzer{}
	service := schedulerFixture(analyzer, storage, now)

	outcomes := service.RefreshStaleProfiles(context.Background())
	assert.Empty(t, outcomes)
	assert.Empty(t, analyzer.calls)
}

func TestRefreshStaleProfiles_FailedRecordRetriedNextPass(t *testing.T) {
	now := time.Now().UTC()
	storage := newMemStorage()
	storage.records["org-1"] = &models.ProfileRecord{
		OrganizationID: "org-1",
		Website:        "https://acme.com",
		Status:         models.AnalysisStatusFailed,
		Error:          "previous failure",
		UpdatedAt:      now.Add(-48 * time.Hour),
	}

	analyzer := &fakeAnalyzer{}
	service := schedulerFixture(analyzer, storage, now)

	outcomes := service.RefreshStaleProfiles(context.Background())
	require.Len(t, outcomes, 1)
	assert.Equal(t, models.AnalysisStatusCompleted, outcomes[0].Status)
	assert.Empty(t, storage.records["org-1"].Error)
}

func TestStart_DisabledIsNoop(t *testing.T) {
	service := NewService(&fakeAnalyzer{}, newMemStorage(), common.SchedulerConfig{Enabled: false}, common.GetLogger())
	require.NoError(t, service.Start())
	service.Stop()
}

func TestStart_RejectsDoubleStart(t *testing.T) {
	config := common.SchedulerConfig{Enabled: true, Schedule: "@every 1h"}
	service := NewService(&fakeAnalyzer{}, newMemStorage(), config, common.GetLogger())
	require.NoError(t, service.Start())
	defer service.Stop()

	require.Error(t, service.Start())
}
