package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
)

// Service re-analyzes stale profiles on a cron schedule. Refresh is
// at-least-once: a failed run records the failed status and is picked up
// again on the next tick.
type Service struct {
	analyzer interfaces.AnalyzerService
	storage  interfaces.ProfileStorage
	config   common.SchedulerConfig
	cron     *cron.Cron
	logger   arbor.ILogger
	clock    func() time.Time

	mu      sync.Mutex
	running bool
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the staleness clock. Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates the refresh scheduler.
func NewService(analyzer interfaces.AnalyzerService, storage interfaces.ProfileStorage, config common.SchedulerConfig, logger arbor.ILogger, opts ...Option) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}

	service := &Service{
		analyzer: analyzer,
		storage:  storage,
		config:   config,
		cron:     cron.New(),
		logger:   logger,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Start begins the cron loop. A no-op when the scheduler is disabled.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Debug().Msg("Profile refresh scheduler disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "@every 1h"
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		s.RefreshStaleProfiles(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", schedule).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("Profile refresh scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for an in-flight refresh to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Profile refresh scheduler stopped")
}

// RefreshStaleProfiles re-analyzes every stored profile older than the
// configured refresh interval. Returns the per-organization outcomes.
func (s *Service) RefreshStaleProfiles(ctx context.Context) []models.ResultEnvelope {
	records, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list profiles for refresh")
		return nil
	}

	var outcomes []models.ResultEnvelope
	for _, record := range records {
		if !s.isStale(record) {
			continue
		}
		outcomes = append(outcomes, s.refreshOne(ctx, record))
	}

	if len(outcomes) > 0 {
		s.logger.Info().Int("refreshed", len(outcomes)).Msg("Stale profile refresh pass completed")
	}
	return outcomes
}

// isStale reports whether the record is due for re-analysis. Records still in
// flight and records without a website are skipped.
func (s *Service) isStale(record *models.ProfileRecord) bool {
	if record.Website == "" {
		return false
	}
	if record.Status == models.AnalysisStatusProcessing || record.Status == models.AnalysisStatusCancelled {
		return false
	}
	return s.clock().Sub(record.UpdatedAt) >= s.config.RefreshInterval
}

func (s *Service) refreshOne(ctx context.Context, record *models.ProfileRecord) models.ResultEnvelope {
	orgID := record.OrganizationID

	if err := s.storage.SetStatus(ctx, orgID, models.AnalysisStatusProcessing, ""); err != nil {
		s.logger.Warn().Str("org_id", orgID).Err(err).Msg("Failed to mark profile processing")
	}

	profile, err := s.analyzer.AnalyzeWebsite(ctx, record.Website, record.Name)
	if err != nil {
		s.logger.Warn().Str("org_id", orgID).Err(err).Msg("Profile refresh failed")
		if statusErr := s.storage.SetStatus(ctx, orgID, models.AnalysisStatusFailed, err.Error()); statusErr != nil {
			s.logger.Error().Str("org_id", orgID).Err(statusErr).Msg("Failed to record refresh failure")
		}
		return models.ResultEnvelope{Status: models.AnalysisStatusFailed, Error: err.Error(), OrganizationID: orgID}
	}

	record.Profile = profile
	record.Status = models.AnalysisStatusCompleted
	record.Error = ""
	if err := s.storage.Upsert(ctx, record); err != nil {
		s.logger.Error().Str("org_id", orgID).Err(err).Msg("Failed to persist refreshed profile")
		return models.ResultEnvelope{Status: models.AnalysisStatusFailed, Error: err.Error(), OrganizationID: orgID}
	}

	return models.ResultEnvelope{Status: models.AnalysisStatusCompleted, OrganizationID: orgID}
}
