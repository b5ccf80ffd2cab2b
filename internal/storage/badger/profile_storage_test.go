package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/models"
)

func newTestStorage(t *testing.T) *ProfileStorage {
	t.Helper()
	db, err := NewBadgerDB(common.GetLogger(), &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewProfileStorage(db, common.GetLogger())
}

func TestProfileStorage_UpsertAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	profile := models.NewWebsiteProfile("https://acme.com", "acme.com")
	profile.Industry = "Robotics"

	record := &models.ProfileRecord{
		OrganizationID: "org-1",
		Name:           "Acme",
		Website:        "https://acme.com",
		Status:         models.AnalysisStatusCompleted,
		Profile:        profile,
	}
	require.NoError(t, storage.Upsert(ctx, record))

	got, err := storage.Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, models.AnalysisStatusCompleted, got.Status)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Robotics", got.Profile.Industry)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestProfileStorage_UpsertSupersedes(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	first := &models.ProfileRecord{OrganizationID: "org-1", Name: "Old"}
	require.NoError(t, storage.Upsert(ctx, first))

	second := &models.ProfileRecord{OrganizationID: "org-1", Name: "New"}
	require.NoError(t, storage.Upsert(ctx, second))

	got, err := storage.Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	all, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProfileStorage_UpsertRequiresOrgID(t *testing.T) {
	storage := newTestStorage(t)
	err := storage.Upsert(context.Background(), &models.ProfileRecord{})
	require.Error(t, err)
}

func TestProfileStorage_GetMissing(t *testing.T) {
	storage := newTestStorage(t)
	_, err := storage.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProfileStorage_SetStatusCreatesStub(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SetStatus(ctx, "org-9", models.AnalysisStatusProcessing, ""))

	got, err := storage.Get(ctx, "org-9")
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusProcessing, got.Status)
	assert.Nil(t, got.Profile)
}

func TestProfileStorage_SetStatusPreservesProfile(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	record := &models.ProfileRecord{
		OrganizationID: "org-1",
		Status:         models.AnalysisStatusCompleted,
		Profile:        models.NewWebsiteProfile("https://acme.com", "acme.com"),
	}
	require.NoError(t, storage.Upsert(ctx, record))

	require.NoError(t, storage.SetStatus(ctx, "org-1", models.AnalysisStatusFailed, "provider down"))

	got, err := storage.Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, got.Status)
	assert.Equal(t, "provider down", got.Error)
	assert.NotNil(t, got.Profile, "a failed refresh keeps the last good profile")
}

func TestProfileStorage_List(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, storage.Upsert(ctx, &models.ProfileRecord{OrganizationID: id}))
	}

	all, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
