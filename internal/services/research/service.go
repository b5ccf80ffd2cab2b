package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/interfaces"
	"github.com/ternarybob/vestigo/internal/models"
)

const (
	newsWindowDays = 30
	newsMaxResults = 10
	webMaxResults  = 10
	kbMaxResults   = 5
)

// Service fans research for a topic out across web search, recent news,
// competitor analysis, and the knowledge base, then synthesizes a cross-source
// summary. Individual source failure never aborts the run.
type Service struct {
	searcher  interfaces.SearchService
	knowledge interfaces.KnowledgeService
	logger    arbor.ILogger
}

// NewService creates a research orchestrator. knowledge may be nil when no
// knowledge-base provider is wired.
func NewService(searcher interfaces.SearchService, knowledge interfaces.KnowledgeService, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		searcher:  searcher,
		knowledge: knowledge,
		logger:    logger,
	}
}

// sourceTask is one fan-out unit: it fills its own slot in the bundle.
type sourceTask struct {
	source models.Source
	run    func(ctx context.Context) *models.SourceResult
}

// ComprehensiveResearch runs all applicable sources concurrently and
// synthesizes over whichever succeeded. It never returns an error: an
// entirely-empty bundle is a valid result.
func (s *Service) ComprehensiveResearch(ctx context.Context, topic string, orgCtx models.OrganizationContext) *models.ResearchBundle {
	tasks := []sourceTask{
		{models.SourceWebSearch, func(ctx context.Context) *models.SourceResult {
			return s.runWebSearch(ctx, topic, orgCtx.Industry)
		}},
		{models.SourceRecentNews, func(ctx context.Context) *models.SourceResult {
			return s.runNews(ctx, topic)
		}},
		{models.SourceKnowledgeBase, func(ctx context.Context) *models.SourceResult {
			return s.runKnowledge(ctx, topic)
		}},
	}

	// Competitor analysis needs an organization name to scope its queries.
	if orgCtx.Name != "" {
		tasks = append(tasks, sourceTask{models.SourceCompetitorInsights, func(ctx context.Context) *models.SourceResult {
			return s.runCompetitors(ctx, orgCtx)
		}})
	}

	bundle := s.collect(ctx, topic, tasks)
	bundle.Synthesis = synthesize(bundle.Sources)

	s.logger.Info().
		Str("topic", topic).
		Int("sources", len(bundle.Sources)).
		Int("failed", countFailed(bundle.Sources)).
		Msg("Comprehensive research completed")

	return bundle
}

// ResearchTopic is the lighter variant: web search and news only, same
// synthesis over the reduced source set. numQueries bounds the web results.
func (s *Service) ResearchTopic(ctx context.Context, topic string, orgCtx models.OrganizationContext, numQueries int) *models.ResearchBundle {
	maxResults := webMaxResults
	if numQueries > 0 && numQueries < maxResults {
		maxResults = numQueries
	}

	tasks := []sourceTask{
		{models.SourceWebSearch, func(ctx context.Context) *models.SourceResult {
			resp := s.searcher.Search(ctx, buildWebQuery(topic, orgCtx.Industry), models.SearchOptions{
				Depth:      models.SearchDepthBasic,
				MaxResults: maxResults,
			})
			return searchResult(resp)
		}},
		{models.SourceRecentNews, func(ctx context.Context) *models.SourceResult {
			return s.runNews(ctx, topic)
		}},
	}

	bundle := s.collect(ctx, topic, tasks)
	bundle.Synthesis = synthesize(bundle.Sources)
	return bundle
}

// collect runs every task in its own goroutine and waits for all of them. A
// panicking task is converted into an error slot; it never takes down the
// barrier or its siblings.
func (s *Service) collect(ctx context.Context, topic string, tasks []sourceTask) *models.ResearchBundle {
	results := make([]*models.SourceResult, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(slot int, task sourceTask) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().
						Str("source", string(task.source)).
						Str("panic", fmt.Sprint(r)).
						Msg("Research task panicked")
					results[slot] = &models.SourceResult{Err: fmt.Sprintf("task panic: %v", r)}
				}
			}()
			results[slot] = task.run(ctx)
		}(i, task)
	}
	wg.Wait()

	sources := make(map[models.Source]*models.SourceResult, len(tasks))
	for i, task := range tasks {
		sources[task.source] = results[i]
	}

	return &models.ResearchBundle{
		Topic:        topic,
		ResearchedAt: time.Now().UTC(),
		Sources:      sources,
	}
}

func (s *Service) runWebSearch(ctx context.Context, topic, industry string) *models.SourceResult {
	resp := s.searcher.Search(ctx, buildWebQuery(topic, industry), models.SearchOptions{
		Depth:      models.SearchDepthAdvanced,
		MaxResults: webMaxResults,
	})
	return searchResult(resp)
}

func (s *Service) runNews(ctx context.Context, topic string) *models.SourceResult {
	resp := s.searcher.GetNews(ctx, topic, newsWindowDays, newsMaxResults)
	if resp.Error != "" {
		return &models.SourceResult{Err: resp.Error}
	}
	return &models.SourceResult{News: resp}
}

func (s *Service) runCompetitors(ctx context.Context, orgCtx models.OrganizationContext) *models.SourceResult {
	resp := s.searcher.AnalyzeCompetitors(ctx, orgCtx.Name, orgCtx.Industry, nil)
	if resp.Error != "" {
		return &models.SourceResult{Err: resp.Error}
	}
	return &models.SourceResult{Competitors: resp}
}

func (s *Service) runKnowledge(ctx context.Context, topic string) *models.SourceResult {
	if s.knowledge == nil || !s.knowledge.Configured() {
		return &models.SourceResult{Err: "knowledge base not configured"}
	}
	resp, err := s.knowledge.Query(ctx, topic, kbMaxResults)
	if err != nil {
		return &models.SourceResult{Err: err.Error()}
	}
	return &models.SourceResult{Knowledge: resp}
}

func searchResult(resp *models.SearchResponse) *models.SourceResult {
	if resp.Error != "" {
		return &models.SourceResult{Err: resp.Error}
	}
	return &models.SourceResult{Search: resp}
}

func buildWebQuery(topic, industry string) string {
	if industry == "" {
		return topic
	}
	return strings.TrimSpace(topic + " " + industry)
}

func countFailed(sources map[models.Source]*models.SourceResult) int {
	failed := 0
	for _, result := range sources {
		if result.Failed() {
			failed++
		}
	}
	return failed
}
