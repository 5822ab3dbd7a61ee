package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/ports"
)

// ProfileHandler lets customers and professionals edit their own account.
type ProfileHandler struct {
	api ports.MarketplaceAPI
}

func NewProfileHandler(api ports.MarketplaceAPI) *ProfileHandler {
	return &ProfileHandler{api: api}
}

// The password only changes when both old and new are supplied.
type updateProfileRequest struct {
	Username    string `json:"username"     form:"username"`
	Email       string `json:"email"        form:"email"        validate:"omitempty,email"`
	OldPassword string `json:"old_password" form:"old_password" validate:"required_with=NewPassword"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required_with=OldPassword"`
}

// Update handles PUT /{role}/profile.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile changes"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /customer/profile [put]
// @Router       /professional/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.api.UpdateProfile(c.Request().Context(), ctxToken(c), ports.ProfileUpdate{
		Username:    req.Username,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
