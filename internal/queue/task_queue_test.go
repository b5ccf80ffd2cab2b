package queue

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vestigo/internal/common"
	"github.com/ternarybob/vestigo/internal/models"
)

func newTestQueue(t *testing.T, visibility time.Duration, maxReceive int) *TaskQueue {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	queue, err := NewTaskQueue(db, visibility, maxReceive)
	require.NoError(t, err)
	return queue
}

func TestTaskQueue_Lifecycle(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	ctx := context.Background()

	task := AnalysisTask{OrganizationID: "org-1", WebsiteURL: "https://acme.com", OrganizationName: "Acme"}
	id, err := queue.Enqueue(ctx, task)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	count, err := queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	claimedID, claimed, err := queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, claimedID)
	assert.Equal(t, task, *claimed)

	require.NoError(t, queue.Complete(ctx, claimedID))

	count, err = queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTaskQueue_EmptyReceive(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	_, _, err := queue.Receive(context.Background())
	require.ErrorIs(t, err, ErrNoTask)
}

func TestTaskQueue_EnqueueRequiresOrgID(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	_, err := queue.Enqueue(context.Background(), AnalysisTask{WebsiteURL: "https://acme.com"})
	require.Error(t, err)
}

func TestTaskQueue_ClaimedTaskIsInvisible(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, AnalysisTask{OrganizationID: "org-1"})
	require.NoError(t, err)

	_, _, err = queue.Receive(ctx)
	require.NoError(t, err)

	_, _, err = queue.Receive(ctx)
	require.ErrorIs(t, err, ErrNoTask, "claimed task must stay invisible until released or timed out")
}

func TestTaskQueue_ReleaseMakesVisible(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, AnalysisTask{OrganizationID: "org-1"})
	require.NoError(t, err)

	id, _, err := queue.Receive(ctx)
	require.NoError(t, err)
	require.NoError(t, queue.Release(ctx, id))

	again, _, err := queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestTaskQueue_ReceiveBudgetDropsTask(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 2)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, AnalysisTask{OrganizationID: "org-1"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		id, _, err := queue.Receive(ctx)
		require.NoError(t, err)
		require.NoError(t, queue.Release(ctx, id))
	}

	// Budget exhausted: the next receive drops the task instead of claiming it.
	_, _, err = queue.Receive(ctx)
	require.ErrorIs(t, err, ErrNoTask)

	count, err := queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDispatcher_CompletesSuccessfulTask(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, AnalysisTask{OrganizationID: "org-1", WebsiteURL: "https://acme.com"})
	require.NoError(t, err)

	var handled []AnalysisTask
	dispatcher := NewDispatcher(queue, func(_ context.Context, task AnalysisTask) models.ResultEnvelope {
		handled = append(handled, task)
		return models.ResultEnvelope{Status: models.AnalysisStatusCompleted, OrganizationID: task.OrganizationID}
	}, time.Second, common.GetLogger())

	dispatcher.drain(ctx)

	require.Len(t, handled, 1)
	count, err := queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDispatcher_RetriesFailedTaskUntilBudget(t *testing.T) {
	queue := newTestQueue(t, time.Minute, 3)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, AnalysisTask{OrganizationID: "org-1", WebsiteURL: "https://acme.com"})
	require.NoError(t, err)

	attempts := 0
	dispatcher := NewDispatcher(queue, func(_ context.Context, task AnalysisTask) models.ResultEnvelope {
		attempts++
		return models.ResultEnvelope{Status: models.AnalysisStatusFailed, Error: "boom", OrganizationID: task.OrganizationID}
	}, time.Second, common.GetLogger())

	dispatcher.drain(ctx)

	assert.Equal(t, 3, attempts, "at-least-once delivery bounded by the receive budget")
	count, err := queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
