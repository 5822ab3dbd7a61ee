package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/ports"
)

type ProfessionalHandler struct {
	api ports.MarketplaceAPI
}

func NewProfessionalHandler(api ports.MarketplaceAPI) *ProfessionalHandler {
	return &ProfessionalHandler{api: api}
}

// AcceptRequest handles PUT /professional/requests/:id/accept.
//
// @Summary      Accept a pending service request
// @Tags         professional
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  messageResponse
// @Router       /professional/requests/{id}/accept [put]
func (h *ProfessionalHandler) AcceptRequest(c echo.Context) error {
	return runIDAction(c, h.api.AcceptRequest)
}
