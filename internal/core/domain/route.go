package domain

// View identifies the component rendered for a route.
type View string

const (
	ViewHome                  View = "home"
	ViewLogin                 View = "login"
	ViewRegister              View = "register"
	ViewKnowMore              View = "know-more"
	ViewTerms                 View = "terms"
	ViewAdminDashboard        View = "admin-dashboard"
	ViewProfessionalDashboard View = "professional-dashboard"
	ViewCustomerDashboard     View = "customer-dashboard"
)

// Well-known paths.
const (
	PathHome                  = "/"
	PathLogin                 = "/login"
	PathRegister              = "/register"
	PathKnowMore              = "/know-more"
	PathTerms                 = "/terms"
	PathAdminDashboard        = "/admin/dashboard"
	PathProfessionalDashboard = "/professional/dashboard"
	PathCustomerDashboard     = "/customer/dashboard"
	PathDashboardFallback     = "/dashboard"
)

// RouteDescriptor is static metadata for one navigable path.
type RouteDescriptor struct {
	Path         string
	RequiresAuth bool
	View         View
}
