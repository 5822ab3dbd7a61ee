package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/household-services/frontend/internal/api/metrics"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/navigation"
)

// Navigate runs the navigation guard before a view handler. Redirects are
// answered with 302 Found; Proceed hands over to the view.
// It must run after Tab.
func Navigate(g *navigation.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var state navigation.SessionState = domain.Session{}
			if s := Session(c); s != nil {
				state = s
			}

			target := c.Request().URL.Path
			d := g.Decide(target, state)
			metrics.NavigationDecisionsTotal.WithLabelValues(viewLabel(g, target), decisionLabel(d)).Inc()

			if d.IsRedirect() {
				return c.Redirect(http.StatusFound, d.Location())
			}
			return next(c)
		}
	}
}

func viewLabel(g *navigation.Guard, path string) string {
	if rd, ok := g.Routes().Lookup(path); ok {
		return string(rd.View)
	}
	return "unmatched"
}

func decisionLabel(d navigation.Decision) string {
	switch {
	case !d.IsRedirect():
		return "proceed"
	case d.Location() == domain.PathLogin:
		return "redirect_login"
	default:
		return "redirect_dashboard"
	}
}
