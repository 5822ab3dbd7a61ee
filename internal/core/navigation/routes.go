package navigation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/household-services/frontend/internal/core/domain"
)

var ErrInvalidRouteTable = errors.New("invalid route table")

// UnmatchedPolicy decides how the guard treats a path with no descriptor.
type UnmatchedPolicy int

const (
	// UnmatchedPublic lets unknown paths through; only flagged routes are protected.
	UnmatchedPublic UnmatchedPolicy = iota
	// UnmatchedProtected treats unknown paths as requiring authentication.
	UnmatchedProtected
)

func (p UnmatchedPolicy) String() string {
	if p == UnmatchedProtected {
		return "protected"
	}
	return "public"
}

// DefaultRoutes is the marketplace route surface.
func DefaultRoutes() []domain.RouteDescriptor {
	return []domain.RouteDescriptor{
		{Path: domain.PathHome, View: domain.ViewHome},
		{Path: domain.PathLogin, View: domain.ViewLogin},
		{Path: domain.PathRegister, View: domain.ViewRegister},
		{Path: domain.PathKnowMore, View: domain.ViewKnowMore},
		{Path: domain.PathTerms, View: domain.ViewTerms},
		{Path: domain.PathAdminDashboard, View: domain.ViewAdminDashboard, RequiresAuth: true},
		{Path: domain.PathProfessionalDashboard, View: domain.ViewProfessionalDashboard, RequiresAuth: true},
		{Path: domain.PathCustomerDashboard, View: domain.ViewCustomerDashboard, RequiresAuth: true},
	}
}

// RouteTable is an ordered, immutable set of route descriptors with exact
// path lookup.
type RouteTable struct {
	routes    []domain.RouteDescriptor
	index     map[string]int
	unmatched UnmatchedPolicy
}

// NewRouteTable validates routes and builds the lookup index. Every path must
// be absolute and unique, the login route must be public, and each role
// dashboard must be present and require authentication, so a renamed
// dashboard cannot silently become public.
func NewRouteTable(policy UnmatchedPolicy, routes ...domain.RouteDescriptor) (*RouteTable, error) {
	t := &RouteTable{
		routes:    make([]domain.RouteDescriptor, 0, len(routes)),
		index:     make(map[string]int, len(routes)),
		unmatched: policy,
	}

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidRouteTable, r.Path)
		}
		if _, dup := t.index[r.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidRouteTable, r.Path)
		}
		if r.View == "" {
			return nil, fmt.Errorf("%w: path %q has no view", ErrInvalidRouteTable, r.Path)
		}
		t.index[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	login, ok := t.Lookup(domain.PathLogin)
	if !ok || login.RequiresAuth {
		return nil, fmt.Errorf("%w: %s must be registered as public", ErrInvalidRouteTable, domain.PathLogin)
	}
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleProfessional, domain.RoleCustomer} {
		path := DashboardPathFor(role)
		r, ok := t.Lookup(path)
		if !ok || !r.RequiresAuth {
			return nil, fmt.Errorf("%w: %s dashboard %s must be registered as protected", ErrInvalidRouteTable, role, path)
		}
	}

	return t, nil
}

// MustRouteTable is NewRouteTable for static tables known to be valid.
func MustRouteTable(policy UnmatchedPolicy, routes ...domain.RouteDescriptor) *RouteTable {
	t, err := NewRouteTable(policy, routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the descriptor registered for exactly path.
func (t *RouteTable) Lookup(path string) (domain.RouteDescriptor, bool) {
	i, ok := t.index[path]
	if !ok {
		return domain.RouteDescriptor{}, false
	}
	return t.routes[i], true
}

// RequiresAuth applies the unmatched policy to paths with no descriptor.
func (t *RouteTable) RequiresAuth(path string) bool {
	if r, ok := t.Lookup(path); ok {
		return r.RequiresAuth
	}
	return t.unmatched == UnmatchedProtected
}

// Routes returns the descriptors in registration order.
func (t *RouteTable) Routes() []domain.RouteDescriptor {
	out := make([]domain.RouteDescriptor, len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *RouteTable) Unmatched() UnmatchedPolicy {
	return t.unmatched
}
