package memory

import (
	"context"
	"sync"
	"time"

	"github.com/household-services/frontend/internal/core/domain"
)

const defaultRetention = 24 * time.Hour

type trackedTask struct {
	task      domain.ExportTask
	updatedAt time.Time
}

// ExportTracker keeps export task states in a map. Safe for concurrent use.
// Tasks not updated within the retention window are dropped by PurgeExpired.
type ExportTracker struct {
	mu        sync.RWMutex
	tasks     map[string]trackedTask
	retention time.Duration
	now       func() time.Time
}

// NewExportTracker returns an empty tracker. A non-positive retention
// selects defaultRetention.
func NewExportTracker(retention time.Duration) *ExportTracker {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &ExportTracker{
		tasks:     make(map[string]trackedTask),
		retention: retention,
		now:       time.Now,
	}
}

func (t *ExportTracker) Put(_ context.Context, task domain.ExportTask) error {
	now := t.now()
	t.mu.Lock()
	t.tasks[task.TaskID] = trackedTask{task: task, updatedAt: now}
	t.mu.Unlock()
	return nil
}

func (t *ExportTracker) Get(_ context.Context, taskID string) (*domain.ExportTask, error) {
	t.mu.RLock()
	tt, ok := t.tasks[taskID]
	t.mu.RUnlock()
	if !ok || t.now().Sub(tt.updatedAt) >= t.retention {
		return nil, domain.ErrExportNotFound
	}
	return &tt.task, nil
}

// PurgeExpired drops tasks older than the retention window and reports how
// many.
func (t *ExportTracker) PurgeExpired(_ context.Context) (int64, error) {
	cutoff := t.now().Add(-t.retention)

	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for id, tt := range t.tasks {
		if !tt.updatedAt.After(cutoff) {
			delete(t.tasks, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of tracked tasks, expired ones included.
func (t *ExportTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tasks)
}
