// Package navigation decides, before any view renders, whether a tab may see
// the requested path.
//
// The guard is a pure function of (session state, requested path). It never
// mutates the session and performs no I/O.
package navigation

import "github.com/household-services/frontend/internal/core/domain"

// Decision is the outcome of a guard check. The zero value is Proceed.
// Decisions are comparable, so RedirectTo("/login") == RedirectTo("/login").
type Decision struct {
	location string
}

// Proceed lets the navigation through.
var Proceed = Decision{}

// RedirectTo sends the tab to path instead.
func RedirectTo(path string) Decision {
	return Decision{location: path}
}

func (d Decision) IsRedirect() bool {
	return d.location != ""
}

// Location is the redirect target, or "" for Proceed.
func (d Decision) Location() string {
	return d.location
}

func (d Decision) String() string {
	if d.IsRedirect() {
		return "redirect:" + d.location
	}
	return "proceed"
}

// SessionState is the read side of a session as seen by the guard.
type SessionState interface {
	IsAuthenticated() bool
	CurrentRole() domain.Role
}

// DashboardPathFor maps every role, including RoleNone and garbage values
// read from client storage, onto a landing path.
func DashboardPathFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return domain.PathAdminDashboard
	case domain.RoleProfessional:
		return domain.PathProfessionalDashboard
	case domain.RoleCustomer:
		return domain.PathCustomerDashboard
	default:
		return domain.PathDashboardFallback
	}
}

type Guard struct {
	routes *RouteTable
}

func NewGuard(routes *RouteTable) *Guard {
	return &Guard{routes: routes}
}

// Decide evaluates a navigation to target:
//  1. authenticated tabs asking for /login go to their own dashboard;
//  2. anonymous tabs asking for a protected route go to /login;
//  3. everything else proceeds.
func (g *Guard) Decide(target string, s SessionState) Decision {
	authenticated := s.IsAuthenticated()

	if target == domain.PathLogin && authenticated {
		return RedirectTo(DashboardPathFor(s.CurrentRole()))
	}
	if g.routes.RequiresAuth(target) && !authenticated {
		return RedirectTo(domain.PathLogin)
	}
	return Proceed
}

// Routes exposes the table the guard was built with.
func (g *Guard) Routes() *RouteTable {
	return g.routes
}
