package queue

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/models"
)

// TaskHandler executes one analysis task and reports the uniform status
// envelope back for the dispatcher to act on.
type TaskHandler func(ctx context.Context, task AnalysisTask) models.ResultEnvelope

// Dispatcher polls the task queue and runs each task through the handler.
// Failed tasks are released for redelivery; the queue's receive budget bounds
// the retries.
type Dispatcher struct {
	queue        *TaskQueue
	handler      TaskHandler
	pollInterval time.Duration
	logger       arbor.ILogger
}

// NewDispatcher creates a dispatcher over the queue.
func NewDispatcher(queue *TaskQueue, handler TaskHandler, pollInterval time.Duration, logger arbor.ILogger) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Dispatcher{
		queue:        queue,
		handler:      handler,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Run processes tasks until the context is done. Between empty polls it
// sleeps for the poll interval.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		d.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// drain processes every currently visible task.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		id, task, err := d.queue.Receive(ctx)
		if errors.Is(err, ErrNoTask) {
			return
		}
		if err != nil {
			d.logger.Error().Err(err).Msg("Failed to receive analysis task")
			return
		}

		envelope := d.handler(ctx, *task)
		if envelope.Status == models.AnalysisStatusCompleted {
			if err := d.queue.Complete(ctx, id); err != nil {
				d.logger.Warn().Str("task_id", id).Err(err).Msg("Failed to remove completed task")
			}
			continue
		}

		d.logger.Warn().
			Str("task_id", id).
			Str("org_id", envelope.OrganizationID).
			Str("error", envelope.Error).
			Msg("Analysis task failed, releasing for retry")
		if err := d.queue.Release(ctx, id); err != nil {
			d.logger.Warn().Str("task_id", id).Err(err).Msg("Failed to release task")
		}
	}
}
