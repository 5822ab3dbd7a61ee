package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/household-services/frontend/internal/core/domain"
)

const (
	exportKeyPrefix = "export-task:"
	exportTTL       = 24 * time.Hour
)

// ExportTracker stores export task states as JSON strings that expire after
// exportTTL. Key format: export-task:<task id>
type ExportTracker struct {
	client *redis.Client
}

func NewExportTracker(client *redis.Client) *ExportTracker {
	return &ExportTracker{client: client}
}

func (t *ExportTracker) Put(ctx context.Context, task domain.ExportTask) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode export task: %w", err)
	}
	if err := t.client.Set(ctx, exportKeyPrefix+task.TaskID, raw, exportTTL).Err(); err != nil {
		return fmt.Errorf("store export task: %w", err)
	}
	return nil
}

func (t *ExportTracker) Get(ctx context.Context, taskID string) (*domain.ExportTask, error) {
	raw, err := t.client.Get(ctx, exportKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrExportNotFound
		}
		return nil, fmt.Errorf("load export task: %w", err)
	}

	var task domain.ExportTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decode export task: %w", err)
	}
	return &task, nil
}
