package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/ports"
)

// CustomerHandler mirrors the customer dashboard actions.
type CustomerHandler struct {
	api ports.MarketplaceAPI
}

func NewCustomerHandler(api ports.MarketplaceAPI) *CustomerHandler {
	return &CustomerHandler{api: api}
}

type createRequestRequest struct {
	ServiceID int `json:"service_id" form:"service_id" validate:"required,gt=0"`
}

type rateRequest struct {
	Rating int `json:"rating" form:"rating" validate:"required,min=1,max=5"`
}

// CreateRequest handles POST /customer/requests.
//
// @Summary      Request a service
// @Tags         customer
// @Accept       json
// @Produce      json
// @Param        body  body      createRequestRequest  true  "Service to book"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /customer/requests [post]
func (h *CustomerHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.api.CreateRequest(c.Request().Context(), ctxToken(c), req.ServiceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

// CancelRequest handles DELETE /customer/requests/:id.
//
// @Summary      Cancel a service request
// @Tags         customer
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  messageResponse
// @Router       /customer/requests/{id} [delete]
func (h *CustomerHandler) CancelRequest(c echo.Context) error {
	return runIDAction(c, h.api.CancelRequest)
}

// CompleteRequest handles PATCH /customer/requests/:id/complete.
//
// @Summary      Mark a service request completed
// @Tags         customer
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  messageResponse
// @Router       /customer/requests/{id}/complete [patch]
func (h *CustomerHandler) CompleteRequest(c echo.Context) error {
	return runIDAction(c, h.api.CompleteRequest)
}

// RateRequest handles POST /customer/requests/:id/rate.
//
// @Summary      Rate a completed service request
// @Tags         customer
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Request ID"
// @Param        body  body      rateRequest  true  "Rating from 1 to 5"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /customer/requests/{id}/rate [post]
func (h *CustomerHandler) RateRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req rateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.api.RateRequest(c.Request().Context(), ctxToken(c), id, req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
