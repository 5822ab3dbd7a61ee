package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/navigation"
	"github.com/household-services/frontend/internal/core/ports"
)

// ViewHandler serves the view models of every navigable route. It only runs
// once the navigation guard has let the request through.
type ViewHandler struct {
	dashboards ports.DashboardService
}

func NewViewHandler(dashboards ports.DashboardService) *ViewHandler {
	return &ViewHandler{dashboards: dashboards}
}

type sessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
	Dashboard     string `json:"dashboard,omitempty"`
}

type viewResponse struct {
	View    domain.View `json:"view"`
	Session sessionInfo `json:"session"`
	Data    any         `json:"data,omitempty"`
}

func (h *ViewHandler) render(c echo.Context, view domain.View, data any) error {
	info := sessionInfo{Role: domain.RoleNone.String()}
	if s := middleware.Session(c); s != nil && s.IsAuthenticated() {
		info = sessionInfo{
			Authenticated: true,
			Role:          s.CurrentRole().String(),
			Dashboard:     navigation.DashboardPathFor(s.CurrentRole()),
		}
	}
	return c.JSON(http.StatusOK, viewResponse{View: view, Session: info, Data: data})
}

// Static returns a handler for a view that needs no data.
func (h *ViewHandler) Static(view domain.View) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.render(c, view, nil)
	}
}

// Register lists the services a professional can sign up for.
//
// @Summary      Registration view
// @Tags         views
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /register [get]
func (h *ViewHandler) Register(c echo.Context) error {
	return h.render(c, domain.ViewRegister, h.dashboards.Register(c.Request().Context(), ctxToken(c)))
}

// AdminDashboard handles GET /admin/dashboard.
//
// @Summary      Admin dashboard
// @Tags         views
// @Produce      json
// @Param        user_q     query     string  false  "Filter users"
// @Param        service_q  query     string  false  "Filter services"
// @Param        request_q  query     string  false  "Filter service requests"
// @Success      200        {object}  viewResponse
// @Success      302
// @Router       /admin/dashboard [get]
func (h *ViewHandler) AdminDashboard(c echo.Context) error {
	q := ports.AdminQuery{
		User:    c.QueryParam("user_q"),
		Service: c.QueryParam("service_q"),
		Request: c.QueryParam("request_q"),
	}
	return h.render(c, domain.ViewAdminDashboard, h.dashboards.Admin(c.Request().Context(), ctxToken(c), q))
}

// CustomerDashboard handles GET /customer/dashboard.
//
// @Summary      Customer dashboard
// @Tags         views
// @Produce      json
// @Param        q         query     string  false  "Filter services by name"
// @Param        status_q  query     string  false  "Filter requests by status"
// @Success      200       {object}  viewResponse
// @Success      302
// @Router       /customer/dashboard [get]
func (h *ViewHandler) CustomerDashboard(c echo.Context) error {
	q := ports.CustomerQuery{
		Service: c.QueryParam("q"),
		Status:  c.QueryParam("status_q"),
	}
	return h.render(c, domain.ViewCustomerDashboard, h.dashboards.Customer(c.Request().Context(), ctxToken(c), q))
}

// ProfessionalDashboard handles GET /professional/dashboard.
//
// @Summary      Professional dashboard
// @Tags         views
// @Produce      json
// @Param        price_q   query     string  false  "Price filter, e.g. >=200"
// @Param        status_q  query     string  false  "Filter accepted requests by status"
// @Success      200       {object}  viewResponse
// @Success      302
// @Router       /professional/dashboard [get]
func (h *ViewHandler) ProfessionalDashboard(c echo.Context) error {
	q := ports.ProfessionalQuery{
		Price:  c.QueryParam("price_q"),
		Status: c.QueryParam("status_q"),
	}
	return h.render(c, domain.ViewProfessionalDashboard, h.dashboards.Professional(c.Request().Context(), ctxToken(c), q))
}

// Dashboard is the landing path for sessions whose role has no dashboard of
// its own. Known roles are sent to their dashboard.
func (h *ViewHandler) Dashboard(c echo.Context) error {
	if s := middleware.Session(c); s != nil && s.CurrentRole().Known() {
		return c.Redirect(http.StatusFound, navigation.DashboardPathFor(s.CurrentRole()))
	}
	return h.render(c, domain.ViewHome, messageResponse{Message: "no dashboard is available for this account"})
}

// NotFound answers unmatched paths the guard let through.
func (h *ViewHandler) NotFound(c echo.Context) error {
	return echo.ErrNotFound
}
