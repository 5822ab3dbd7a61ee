package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/domain"
)

// RequireSession rejects anonymous tabs with domain.ErrAuthRequired, which the
// error handler turns into a redirect to /login. It must run after Tab.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := Session(c)
			if s == nil || !s.IsAuthenticated() {
				return domain.ErrAuthRequired
			}
			return next(c)
		}
	}
}
