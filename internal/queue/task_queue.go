package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ErrNoTask is returned when no task is currently visible.
var ErrNoTask = errors.New("no tasks in queue")

// AnalysisTask is one deferred unit of analysis work.
type AnalysisTask struct {
	OrganizationID   string `json:"organization_id"`
	WebsiteURL       string `json:"website_url"`
	OrganizationName string `json:"organization_name"`
}

// queuedTask is the internal structure stored in Badger.
type queuedTask struct {
	ID           string       `json:"id"`
	Task         AnalysisTask `json:"task"`
	EnqueuedAt   time.Time    `json:"enqueued_at"`
	VisibleAt    time.Time    `json:"visible_at"`
	ReceiveCount int          `json:"receive_count"`
}

// TaskQueue is a persistent at-least-once analysis queue backed by BadgerDB.
// A received task becomes invisible for the visibility timeout; if it is not
// completed in time it reappears for redelivery, up to maxReceive attempts.
type TaskQueue struct {
	db                *badger.DB
	visibilityTimeout time.Duration
	maxReceive        int
}

// NewTaskQueue creates a queue on an open Badger handle.
func NewTaskQueue(db *badger.DB, visibilityTimeout time.Duration, maxReceive int) (*TaskQueue, error) {
	if db == nil {
		return nil, errors.New("badger db is required")
	}
	if visibilityTimeout <= 0 {
		visibilityTimeout = 5 * time.Minute
	}
	if maxReceive <= 0 {
		maxReceive = 3
	}

	return &TaskQueue{
		db:                db,
		visibilityTimeout: visibilityTimeout,
		maxReceive:        maxReceive,
	}, nil
}

func taskKey(id string) []byte {
	return []byte("task:" + id)
}

// Enqueue adds a task and returns its ID.
func (q *TaskQueue) Enqueue(ctx context.Context, task AnalysisTask) (string, error) {
	if task.OrganizationID == "" {
		return "", errors.New("task organization ID is required")
	}

	entry := queuedTask{
		ID:         uuid.NewString(),
		Task:       task,
		EnqueuedAt: time.Now().UTC(),
		VisibleAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode task: %w", err)
	}

	err = q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(taskKey(entry.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	return entry.ID, nil
}

// Receive claims the next visible task, making it invisible for the
// visibility timeout. A task past its receive budget is dropped. Returns
// ErrNoTask when nothing is available.
func (q *TaskQueue) Receive(ctx context.Context) (string, *AnalysisTask, error) {
	var claimedID string
	var claimed *AnalysisTask

	err := q.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("task:")
		it := txn.NewIterator(opts)
		defer it.Close()

		now := time.Now().UTC()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var entry queuedTask
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				continue
			}
			if entry.VisibleAt.After(now) {
				continue
			}

			if entry.ReceiveCount >= q.maxReceive {
				if err := txn.Delete(item.KeyCopy(nil)); err != nil {
					return err
				}
				continue
			}

			entry.ReceiveCount++
			entry.VisibleAt = now.Add(q.visibilityTimeout)
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := txn.Set(item.KeyCopy(nil), data); err != nil {
				return err
			}

			claimedID = entry.ID
			task := entry.Task
			claimed = &task
			return nil
		}
		// Return nil even when nothing was claimable so that any dropped
		// over-budget tasks commit instead of rolling back with the txn.
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if claimed == nil {
		return "", nil, ErrNoTask
	}
	return claimedID, claimed, nil
}

// Complete removes a finished task. Completing an already-removed task is a
// no-op.
func (q *TaskQueue) Complete(ctx context.Context, id string) error {
	err := q.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(taskKey(id))
	})
	if err != nil && err != badger.ErrKeyNotFound {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// Release makes a claimed task immediately visible again so a failed run can
// be retried before the visibility timeout expires.
func (q *TaskQueue) Release(ctx context.Context, id string) error {
	err := q.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(taskKey(id))
		if err != nil {
			return err
		}

		var entry queuedTask
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return err
		}

		entry.VisibleAt = time.Now().UTC()
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return txn.Set(taskKey(id), data)
	})
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to release task: %w", err)
	}
	return nil
}

// Len counts currently stored tasks, visible or not.
func (q *TaskQueue) Len() (int, error) {
	count := 0
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("task:")
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
