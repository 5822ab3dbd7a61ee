package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/household-services/frontend/docs"
	"github.com/household-services/frontend/internal/api/handler"
	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/navigation"
	"github.com/household-services/frontend/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log         zerolog.Logger
	Storage     ports.SessionStorage
	Tab         middleware.TabConfig
	Guard       *navigation.Guard
	Auth        ports.AuthService
	Dashboards  ports.DashboardService
	Marketplace ports.MarketplaceAPI
	Exports     ports.ExportService
	Readiness   map[string]handler.Pinger
	// Registerer receives the HTTP request metrics. Nil means the default
	// prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "household_frontend",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	tab := middleware.Tab(d.Storage, d.Tab, d.Log)
	navigate := middleware.Navigate(d.Guard)

	// --- Views: every route in the table, behind the navigation guard ---
	views := handler.NewViewHandler(d.Dashboards)
	viewHandlers := map[domain.View]echo.HandlerFunc{
		domain.ViewHome:                  views.Static(domain.ViewHome),
		domain.ViewLogin:                 views.Static(domain.ViewLogin),
		domain.ViewRegister:              views.Register,
		domain.ViewKnowMore:              views.Static(domain.ViewKnowMore),
		domain.ViewTerms:                 views.Static(domain.ViewTerms),
		domain.ViewAdminDashboard:        views.AdminDashboard,
		domain.ViewProfessionalDashboard: views.ProfessionalDashboard,
		domain.ViewCustomerDashboard:     views.CustomerDashboard,
	}
	for _, rd := range d.Guard.Routes().Routes() {
		h, ok := viewHandlers[rd.View]
		if !ok {
			h = views.Static(rd.View)
		}
		e.GET(rd.Path, h, tab, navigate)
	}
	e.GET(domain.PathDashboardFallback, views.Dashboard, tab, navigate)
	e.RouteNotFound("/*", views.NotFound, tab, navigate)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	e.POST("/login", authHandler.Login, tab)
	e.POST("/register", authHandler.Register, tab)
	e.POST("/logout", authHandler.Logout, tab)

	// --- Dashboard actions ---
	profile := handler.NewProfileHandler(d.Marketplace)

	admin := e.Group("/admin", tab, middleware.RequireSession(), middleware.RBAC(domain.RoleAdmin))
	adminHandler := handler.NewAdminHandler(d.Marketplace)
	exportHandler := handler.NewExportHandler(d.Exports)
	admin.POST("/services", adminHandler.CreateService)
	admin.PUT("/services/:id/toggle", adminHandler.ToggleService)
	admin.DELETE("/services/:id", adminHandler.DeleteService)
	admin.PUT("/users/:id/flag", adminHandler.FlagUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/export", exportHandler.Start)
	admin.GET("/export/:task_id", exportHandler.Status)
	admin.GET("/export/:task_id/file", exportHandler.Download)

	customer := e.Group("/customer", tab, middleware.RequireSession(), middleware.RBAC(domain.RoleCustomer))
	customerHandler := handler.NewCustomerHandler(d.Marketplace)
	customer.PUT("/profile", profile.Update)
	customer.POST("/requests", customerHandler.CreateRequest)
	customer.DELETE("/requests/:id", customerHandler.CancelRequest)
	customer.PATCH("/requests/:id/complete", customerHandler.CompleteRequest)
	customer.POST("/requests/:id/rate", customerHandler.RateRequest)

	professional := e.Group("/professional", tab, middleware.RequireSession(), middleware.RBAC(domain.RoleProfessional))
	professionalHandler := handler.NewProfessionalHandler(d.Marketplace)
	professional.PUT("/profile", profile.Update)
	professional.PUT("/requests/:id/accept", professionalHandler.AcceptRequest)

	return e
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
