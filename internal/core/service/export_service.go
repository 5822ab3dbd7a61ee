package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 30

	exportTimedOut = "timed out"
)

// ExportQueue hands poll jobs to background workers.
type ExportQueue interface {
	Enqueue(ctx context.Context, job ports.ExportPollJob) error
}

type exportService struct {
	api         ports.ExportAPI
	tracker     ports.ExportTracker
	queue       ExportQueue
	interval    time.Duration
	maxAttempts int
	log         zerolog.Logger
}

// NewExportService returns an ExportService. Non-positive interval or
// maxAttempts fall back to the defaults.
func NewExportService(
	api ports.ExportAPI,
	tracker ports.ExportTracker,
	queue ExportQueue,
	interval time.Duration,
	maxAttempts int,
	log zerolog.Logger,
) ports.ExportService {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultPollMaxAttempts
	}
	return &exportService{
		api:         api,
		tracker:     tracker,
		queue:       queue,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Start kicks off an export upstream, records it as pending and schedules
// background polling.
func (s *exportService) Start(ctx context.Context, token string) (*domain.ExportTask, error) {
	taskID, err := s.api.StartExport(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("start export: %w", err)
	}

	task := domain.ExportTask{TaskID: taskID, Status: domain.ExportPending}
	if err := s.tracker.Put(ctx, task); err != nil {
		return nil, fmt.Errorf("start export: track %s: %w", taskID, err)
	}

	if err := s.queue.Enqueue(ctx, ports.ExportPollJob{TaskID: taskID, Token: token}); err != nil {
		task.Status, task.Error = domain.ExportFailed, "could not schedule polling"
		if putErr := s.tracker.Put(ctx, task); putErr != nil {
			s.log.Warn().Err(putErr).Str("task_id", taskID).Msg("failed to record export failure")
		}
		return nil, fmt.Errorf("start export: enqueue %s: %w", taskID, err)
	}

	s.log.Info().Str("task_id", taskID).Msg("export started")
	return &task, nil
}

func (s *exportService) Status(ctx context.Context, taskID string) (*domain.ExportTask, error) {
	task, err := s.tracker.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("export status: %w", err)
	}
	return task, nil
}

// Download streams the file of a completed task through the API.
func (s *exportService) Download(ctx context.Context, token, taskID string) (*ports.ExportFile, error) {
	task, err := s.tracker.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("export download: %w", err)
	}
	if task.Status != domain.ExportCompleted || task.File == "" {
		return nil, fmt.Errorf("export download %s: %w", taskID, domain.ErrExportNotReady)
	}

	file, err := s.api.DownloadExport(ctx, token, task.File)
	if err != nil {
		return nil, fmt.Errorf("export download %s: %w", taskID, err)
	}
	return file, nil
}

// Poll checks the job every interval until it settles, the attempt budget is
// spent or ctx is cancelled. Transient upstream errors use up an attempt; a
// 4xx answer fails the task immediately.
func (s *exportService) Poll(ctx context.Context, job ports.ExportPollJob) error {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		task, err := s.api.ExportStatus(ctx, job.Token, job.TaskID)
		switch {
		case err == nil && task.Status.Terminal():
			return s.settle(ctx, *task)
		case err == nil:
			// still pending
		case isRejection(err):
			return s.settle(ctx, domain.ExportTask{
				TaskID: job.TaskID,
				Status: domain.ExportFailed,
				Error:  sectionMessage("export", err),
			})
		default:
			s.log.Warn().Err(err).
				Str("task_id", job.TaskID).
				Int("attempt", attempt).
				Msg("export status check failed")
		}

		timer.Reset(s.interval)
	}

	return s.settle(ctx, domain.ExportTask{TaskID: job.TaskID, Status: domain.ExportFailed, Error: exportTimedOut})
}

func (s *exportService) settle(ctx context.Context, task domain.ExportTask) error {
	if err := s.tracker.Put(ctx, task); err != nil {
		return fmt.Errorf("poll export %s: %w", task.TaskID, err)
	}
	s.log.Info().
		Str("task_id", task.TaskID).
		Str("status", string(task.Status)).
		Str("error", task.Error).
		Msg("export settled")
	return nil
}

func isRejection(err error) bool {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return false
	}
	var upErr upstreamError
	return errors.As(err, &upErr) && upErr.HTTPStatus() < 500
}
