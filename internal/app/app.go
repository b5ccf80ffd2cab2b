// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:12:40 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
	"github.com/ternarybob/vestigo/internal/queue"
	"github.com/ternarybob/vestigo/internal/services/analyzer"
	"github.com/ternarybob/vestigo/internal/services/knowledge"
	"github.com/ternarybob/vestigo/internal/services/llm"
	"github.com/ternarybob/vestigo/internal/services/research"
	"github.com/ternarybob/vestigo/internal/services/scheduler"
	"github.com/ternarybob/vestigo/internal/services/search"
	badgerstore "github.com/ternarybob/vestigo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB             *badgerstore.BadgerDB
	ProfileStorage interfaces.ProfileStorage

	SearchService    interfaces.SearchService
	KnowledgeService interfaces.KnowledgeService
	LLMService       interfaces.LLMService
	AnalyzerService  interfaces.AnalyzerService
	ResearchService  *research.Service
	SchedulerService *scheduler.Service

	TaskQueue  *queue.TaskQueue
	Dispatcher *queue.Dispatcher
}

// New wires the full pipeline. A missing generation provider degrades the
// analyzer to heuristics-only; it does not fail startup.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	db, err := badgerstore.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile storage: %w", err)
	}
	profileStorage := badgerstore.NewProfileStorage(db, logger)

	searchService := search.NewService(&config.Search, logger)
	knowledgeService := knowledge.NewService(&config.Knowledge, logger)

	var llmService interfaces.LLMService
	llmSvc, err := llm.NewService(config, logger)
	switch {
	case err == nil:
		llmService = llmSvc
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn().Err(err).Msg("Generation provider not configured, analysis falls back to heuristics")
	default:
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
	}

	analyzerService := analyzer.NewService(searchService, llmService, config, logger)
	researchService := research.NewService(searchService, knowledgeService, logger)
	schedulerService := scheduler.NewService(analyzerService, profileStorage, config.Scheduler, logger)

	taskQueue, err := queue.NewTaskQueue(db.Store().Badger(), 5*time.Minute, 3)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}

	application := &App{
		Config:           config,
		Logger:           logger,
		DB:               db,
		ProfileStorage:   profileStorage,
		SearchService:    searchService,
		KnowledgeService: knowledgeService,
		LLMService:       llmService,
		AnalyzerService:  analyzerService,
		ResearchService:  researchService,
		SchedulerService: schedulerService,
		TaskQueue:        taskQueue,
	}

	application.Dispatcher = queue.NewDispatcher(taskQueue, func(ctx context.Context, task queue.AnalysisTask) models.ResultEnvelope {
		return application.AnalyzeOrganization(ctx, models.Organization{
			ID:      task.OrganizationID,
			Name:    task.OrganizationName,
			Website: task.WebsiteURL,
		})
	}, 5*time.Second, logger)

	return application, nil
}

// EnqueueAnalysis defers an analysis run to the task queue for at-least-once
// execution by the dispatcher.
func (a *App) EnqueueAnalysis(ctx context.Context, org models.Organization) (string, error) {
	return a.TaskQueue.Enqueue(ctx, queue.AnalysisTask{
		OrganizationID:   org.ID,
		WebsiteURL:       org.Website,
		OrganizationName: org.Name,
	})
}

// AnalyzeOrganization runs the full trigger path for one organization:
// processing marker, analysis, persisted record, uniform status envelope.
func (a *App) AnalyzeOrganization(ctx context.Context, org models.Organization) models.ResultEnvelope {
	if org.Website == "" {
		return models.ResultEnvelope{
			Status:         models.AnalysisStatusFailed,
			Error:          "organization has no website",
			OrganizationID: org.ID,
		}
	}

	if err := a.ProfileStorage.SetStatus(ctx, org.ID, models.AnalysisStatusProcessing, ""); err != nil {
		a.Logger.Warn().Str("org_id", org.ID).Err(err).Msg("Failed to mark analysis processing")
	}

	profile, err := a.AnalyzerService.AnalyzeWebsite(ctx, org.Website, org.Name)
	if err != nil {
		if statusErr := a.ProfileStorage.SetStatus(ctx, org.ID, models.AnalysisStatusFailed, err.Error()); statusErr != nil {
			a.Logger.Error().Str("org_id", org.ID).Err(statusErr).Msg("Failed to record analysis failure")
		}
		return models.ResultEnvelope{
			Status:         models.AnalysisStatusFailed,
			Error:          err.Error(),
			OrganizationID: org.ID,
		}
	}

	record := &models.ProfileRecord{
		OrganizationID: org.ID,
		Name:           org.Name,
		Website:        profile.SourceURL,
		Status:         models.AnalysisStatusCompleted,
		Profile:        profile,
	}
	if err := a.ProfileStorage.Upsert(ctx, record); err != nil {
		return models.ResultEnvelope{
			Status:         models.AnalysisStatusFailed,
			Error:          err.Error(),
			OrganizationID: org.ID,
		}
	}

	return models.ResultEnvelope{
		Status:         models.AnalysisStatusCompleted,
		OrganizationID: org.ID,
	}
}

// Close releases application resources in reverse dependency order.
func (a *App) Close() {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close profile storage")
		}
	}
}
