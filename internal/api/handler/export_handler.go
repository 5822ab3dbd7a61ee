package handler

import (
	"mime"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

// ExportHandler starts CSV exports and reports their progress.
type ExportHandler struct {
	service ports.ExportService
}

func NewExportHandler(service ports.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Start handles POST /admin/export.
//
// @Summary      Start a CSV export of service requests
// @Tags         admin
// @Produce      json
// @Success      202  {object}  domain.ExportTask
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /admin/export [post]
func (h *ExportHandler) Start(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	task, err := h.service.Start(c.Request().Context(), s.Token())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, task)
}

// Status handles GET /admin/export/:task_id.
//
// @Summary      Export progress
// @Tags         admin
// @Produce      json
// @Param        task_id  path      string  true  "Export task ID"
// @Success      200      {object}  exportTaskResponse
// @Failure      404      {object}  map[string]string
// @Router       /admin/export/{task_id} [get]
func (h *ExportHandler) Status(c echo.Context) error {
	task, err := h.service.Status(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		return err
	}
	resp := exportTaskResponse{ExportTask: task}
	if task.Status == domain.ExportCompleted && task.File != "" {
		resp.Download = "/admin/export/" + url.PathEscape(task.TaskID) + "/file"
	}
	return c.JSON(http.StatusOK, resp)
}

// exportTaskResponse adds the local download link of a completed task. File
// keeps the API's own path.
type exportTaskResponse struct {
	*domain.ExportTask
	Download string `json:"download,omitempty"`
}

// Download handles GET /admin/export/:task_id/file.
//
// @Summary      Download a completed CSV export
// @Tags         admin
// @Produce      text/csv
// @Param        task_id  path      string  true  "Export task ID"
// @Success      200      {file}    file
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /admin/export/{task_id}/file [get]
func (h *ExportHandler) Download(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	file, err := h.service.Download(c.Request().Context(), s.Token(), c.Param("task_id"))
	if err != nil {
		return err
	}
	defer file.Content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	return c.Stream(http.StatusOK, file.ContentType, file.Content)
}
