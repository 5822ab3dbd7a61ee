package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/ports"
)

// AdminHandler mirrors the admin dashboard actions onto the marketplace API.
type AdminHandler struct {
	api ports.MarketplaceAPI
}

func NewAdminHandler(api ports.MarketplaceAPI) *AdminHandler {
	return &AdminHandler{api: api}
}

type createServiceRequest struct {
	Name        string  `json:"name"        form:"name"        validate:"required"`
	Description string  `json:"description" form:"description" validate:"required"`
	Price       float64 `json:"price"       form:"price"       validate:"gt=0"`
}

// CreateService handles POST /admin/services.
//
// @Summary      Create a service
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createServiceRequest  true  "New service"
// @Success      201   {object}  domain.Service
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/services [post]
func (h *AdminHandler) CreateService(c echo.Context) error {
	var req createServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	svc, err := h.api.CreateService(c.Request().Context(), ctxToken(c), ports.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// ToggleService handles PUT /admin/services/:id/toggle.
//
// @Summary      Toggle service availability
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Service ID"
// @Success      200  {object}  messageResponse
// @Router       /admin/services/{id}/toggle [put]
func (h *AdminHandler) ToggleService(c echo.Context) error {
	return runIDAction(c, h.api.ToggleServiceAvailability)
}

// DeleteService handles DELETE /admin/services/:id.
//
// @Summary      Delete a service
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Service ID"
// @Success      200  {object}  messageResponse
// @Router       /admin/services/{id} [delete]
func (h *AdminHandler) DeleteService(c echo.Context) error {
	return runIDAction(c, h.api.DeleteService)
}

// FlagUser handles PUT /admin/users/:id/flag.
//
// @Summary      Flag or unflag a user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Router       /admin/users/{id}/flag [put]
func (h *AdminHandler) FlagUser(c echo.Context) error {
	return runIDAction(c, h.api.FlagUser)
}

// DeleteUser handles DELETE /admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	return runIDAction(c, h.api.DeleteUser)
}

type idAction func(ctx context.Context, token string, id int) (string, error)

// runIDAction parses :id, calls action with the tab's token and relays the
// API's confirmation message.
func runIDAction(c echo.Context, action idAction) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	msg, err := action(c.Request().Context(), ctxToken(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
