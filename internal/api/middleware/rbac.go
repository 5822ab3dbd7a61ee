package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/core/domain"
)

// RBAC enforces role-based access control on top of RequireSession.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := Session(c)
			if s == nil || !s.IsAuthenticated() {
				return domain.ErrAuthRequired
			}
			if _, ok := allowed[s.CurrentRole()]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
