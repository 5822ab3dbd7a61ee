package ports

import (
	"context"

	"github.com/household-services/frontend/internal/core/domain"
)

// ExportPollJob asks a worker to poll one export task until it settles.
type ExportPollJob struct {
	TaskID string
	Token  string
}

// ExportTracker remembers the last known state of each export task.
type ExportTracker interface {
	Put(ctx context.Context, task domain.ExportTask) error
	// Get returns domain.ErrExportNotFound for unknown task ids.
	Get(ctx context.Context, taskID string) (*domain.ExportTask, error)
}

type ExportService interface {
	Start(ctx context.Context, token string) (*domain.ExportTask, error)
	Status(ctx context.Context, taskID string) (*domain.ExportTask, error)
	// Download streams the file of a completed task; domain.ErrExportNotReady
	// until then.
	Download(ctx context.Context, token, taskID string) (*ExportFile, error)
	// Poll runs one job to completion; it is what dispatcher workers call.
	Poll(ctx context.Context, job ExportPollJob) error
}
