package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/household-services/frontend/internal/core/domain"
)

// contains is a case-insensitive substring match; an empty query matches all.
func contains(haystack, query string) bool {
	return strings.Contains(strings.ToLower(haystack), query)
}

func normaliseQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func userStatus(u domain.User) string {
	if u.Flagged {
		return "flagged"
	}
	return "active"
}

func serviceAvailability(s domain.Service) string {
	if s.Available {
		return "available"
	}
	return "unavailable"
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FilterUsers matches username, email, role or "flagged"/"active".
func FilterUsers(users []domain.User, q string) []domain.User {
	q = normaliseQuery(q)
	if q == "" {
		return users
	}
	return filterSlice(users, func(u domain.User) bool {
		return contains(u.Username, q) ||
			contains(u.Email, q) ||
			contains(u.Role, q) ||
			strings.Contains(userStatus(u), q)
	})
}

// FilterServices matches name, description, price or availability.
func FilterServices(services []domain.Service, q string) []domain.Service {
	q = normaliseQuery(q)
	if q == "" {
		return services
	}
	return filterSlice(services, func(s domain.Service) bool {
		return contains(s.Name, q) ||
			contains(s.Description, q) ||
			strings.Contains(formatPrice(s.Price), q) ||
			strings.Contains(serviceAvailability(s), q)
	})
}

// FilterServicesByName is the customer catalogue search.
func FilterServicesByName(services []domain.Service, q string) []domain.Service {
	q = normaliseQuery(q)
	if q == "" {
		return services
	}
	return filterSlice(services, func(s domain.Service) bool { return contains(s.Name, q) })
}

// FilterAdminRequests matches service name, customer, professional or status.
func FilterAdminRequests(reqs []domain.AdminRequest, q string) []domain.AdminRequest {
	q = normaliseQuery(q)
	if q == "" {
		return reqs
	}
	return filterSlice(reqs, func(r domain.AdminRequest) bool {
		return contains(r.Service.Name, q) ||
			contains(r.Customer.Username, q) ||
			(r.Professional != nil && contains(r.Professional.Username, q)) ||
			contains(r.Status, q)
	})
}

func FilterCustomerRequestsByStatus(reqs []domain.CustomerRequest, q string) []domain.CustomerRequest {
	q = normaliseQuery(q)
	if q == "" {
		return reqs
	}
	return filterSlice(reqs, func(r domain.CustomerRequest) bool { return contains(r.Status, q) })
}

func FilterProfessionalRequestsByStatus(reqs []domain.ProfessionalRequest, q string) []domain.ProfessionalRequest {
	q = normaliseQuery(q)
	if q == "" {
		return reqs
	}
	return filterSlice(reqs, func(r domain.ProfessionalRequest) bool { return contains(r.Status, q) })
}

var priceQueryRe = regexp.MustCompile(`^([<>]=?|=)?\s*(\d+)$`)

// PriceFilter is a parsed price query such as ">=200" or "150".
type PriceFilter struct {
	Op    string
	Value float64
}

// ParsePriceQuery parses q. ok is false for blank or malformed queries, in
// which case no filtering applies. A bare number means equality.
func ParsePriceQuery(q string) (PriceFilter, bool) {
	m := priceQueryRe.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return PriceFilter{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return PriceFilter{}, false
	}
	op := m[1]
	if op == "" {
		op = "="
	}
	return PriceFilter{Op: op, Value: v}, true
}

func (f PriceFilter) Match(price float64) bool {
	switch f.Op {
	case ">":
		return price > f.Value
	case ">=":
		return price >= f.Value
	case "<":
		return price < f.Value
	case "<=":
		return price <= f.Value
	default:
		return price == f.Value
	}
}

// FilterProfessionalRequestsByPrice applies a price query; invalid queries
// leave the list untouched.
func FilterProfessionalRequestsByPrice(reqs []domain.ProfessionalRequest, q string) []domain.ProfessionalRequest {
	f, ok := ParsePriceQuery(q)
	if !ok {
		return reqs
	}
	return filterSlice(reqs, func(r domain.ProfessionalRequest) bool { return f.Match(r.ServicePrice) })
}
