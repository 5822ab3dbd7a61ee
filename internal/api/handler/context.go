package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/session"
)

// ctxSession returns the tab's session store and fails fast when the Tab
// middleware did not run or the tab is anonymous.
func ctxSession(c echo.Context) (*session.Store, error) {
	s := middleware.Session(c)
	if s == nil || !s.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}
	return s, nil
}

// ctxToken is the bearer token of the tab, or "" for anonymous tabs.
func ctxToken(c echo.Context) string {
	if s := middleware.Session(c); s != nil {
		return s.Token()
	}
	return ""
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}

// bindAndValidate binds the request into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

type messageResponse struct {
	Message string `json:"message"`
}
