package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api/metrics"
	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username"         form:"username"         validate:"required"`
	Email           string `json:"email"            form:"email"            validate:"required,email"`
	Password        string `json:"password"         form:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
	Role            string `json:"role"             form:"role"             validate:"required,oneof=customer professional"`
	ContactNumber   string `json:"contact_number"   form:"contact_number"   validate:"required_if=Role customer"`
	ServiceID       string `json:"service_id"       form:"service_id"       validate:"required_if=Role professional"`
}

// redirectResponse tells the client where to navigate next.
type redirectResponse struct {
	Redirect string `json:"redirect"`
	Message  string `json:"message,omitempty"`
}

// Login authenticates the tab against the marketplace API.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  redirectResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	s := middleware.Session(c)
	if s == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	path, err := h.authService.Login(c.Request().Context(), s, req.Email, req.Password)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "rejected"
		}
		metrics.SessionLoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.SessionLoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, redirectResponse{Redirect: path})
}

// Register forwards the registration form, including the optional
// verification document of professionals.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        username          formData  string  true   "Username"
// @Param        email             formData  string  true   "Email"
// @Param        password          formData  string  true   "Password"
// @Param        confirm_password  formData  string  true   "Password confirmation"
// @Param        role              formData  string  true   "customer or professional"
// @Param        contact_number    formData  string  false  "Customer contact number"
// @Param        service_id        formData  string  false  "Service offered by a professional"
// @Param        document          formData  file    false  "Professional verification document"
// @Success      201               {object}  redirectResponse
// @Failure      400               {object}  map[string]string
// @Failure      502               {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		ContactNumber:   req.ContactNumber,
		ServiceID:       req.ServiceID,
	}

	if req.Role == string(domain.RoleProfessional) {
		if fh, err := c.FormFile("document"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable document")
			}
			defer f.Close()
			in.Document = &ports.Document{Filename: fh.Filename, Content: f}
		} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid document upload")
		}
	}

	msg, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, redirectResponse{Redirect: domain.PathLogin, Message: msg})
}

// Logout ends the tab's session and always lands on the home page, even
// when the marketplace API could not be reached.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if s := middleware.Session(c); s != nil {
		if err := h.authService.Logout(c.Request().Context(), s); err != nil {
			h.log.Error().Err(err).Str("tab", s.TabID()).Msg("logout could not clear stored session")
		}
	}
	return c.Redirect(http.StatusSeeOther, domain.PathHome)
}
