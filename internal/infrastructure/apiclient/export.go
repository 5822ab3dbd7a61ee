package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

const downloadPrefix = "/download/"

type startExportResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// StartExport calls POST /admin/api/export-csv and returns the job id.
func (c *Client) StartExport(ctx context.Context, token string) (string, error) {
	var out startExportResponse
	if err := c.do(ctx, http.MethodPost, "/admin/api/export-csv", token, struct{}{}, &out); err != nil {
		return "", err
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("start export: empty task id")
	}
	return out.TaskID, nil
}

type exportStatusResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
	Error  string `json:"error"`
}

// ExportStatus calls GET /admin/api/export-csv/{taskId}. The API answers 202
// while pending and 500 once the job failed; both carry a status field and are
// reported as a task, not an error.
func (c *Client) ExportStatus(ctx context.Context, token, taskID string) (*domain.ExportTask, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/api/export-csv/"+url.PathEscape(taskID), token, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out exportStatusResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil || out.Status == "" {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("decode export status: missing status")
		}
		return nil, &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	task := &domain.ExportTask{TaskID: taskID, File: out.File, Error: out.Error}
	switch domain.ExportStatus(out.Status) {
	case domain.ExportCompleted:
		task.Status = domain.ExportCompleted
	case domain.ExportFailed:
		task.Status = domain.ExportFailed
	default:
		// Celery reports intermediate states such as STARTED or RETRY.
		task.Status = domain.ExportPending
	}
	return task, nil
}

// DownloadExport streams GET /download/{filename}. file is what the status
// endpoint reported: either that API path or a bare file name. Anything that
// would leave the API's download route is refused.
func (c *Client) DownloadExport(ctx context.Context, token, file string) (*ports.ExportFile, error) {
	name := strings.TrimPrefix(file, downloadPrefix)
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return nil, fmt.Errorf("download export: invalid file %q", file)
	}

	req, err := c.newRequest(ctx, http.MethodGet, downloadPrefix+url.PathEscape(name), token, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}
	return &ports.ExportFile{Name: name, ContentType: contentType, Content: resp.Body}, nil
}
