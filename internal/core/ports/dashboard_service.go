package ports

import (
	"context"

	"github.com/household-services/frontend/internal/core/domain"
)

// AdminQuery holds the search boxes of the admin dashboard.
type AdminQuery struct {
	User    string
	Service string
	Request string
}

// RoleBreakdown feeds the users-by-role chart.
type RoleBreakdown struct {
	Professionals int `json:"professionals"`
	Customers     int `json:"customers"`
}

// AdminDashboard is the admin view model. Errors holds inline messages per
// section ("users", "services", "requests") for sections that failed to load.
type AdminDashboard struct {
	Users         []domain.User         `json:"users"`
	Services      []domain.Service      `json:"services"`
	Requests      []domain.AdminRequest `json:"requests"`
	TotalUsers    int                   `json:"total_users"`
	TotalServices int                   `json:"total_services"`
	Breakdown     RoleBreakdown         `json:"breakdown"`
	Errors        map[string]string     `json:"errors,omitempty"`
}

// CustomerQuery holds the search boxes of the customer dashboard.
type CustomerQuery struct {
	Service string
	Status  string
}

type CustomerDashboard struct {
	Profile  *domain.Profile          `json:"profile,omitempty"`
	Services []domain.Service         `json:"services"`
	Requests []domain.CustomerRequest `json:"requests"`
	Errors   map[string]string        `json:"errors,omitempty"`
}

// ProfessionalQuery holds the search boxes of the professional dashboard.
// Price accepts an optional comparison operator, e.g. ">=200".
type ProfessionalQuery struct {
	Price  string
	Status string
}

type ProfessionalDashboard struct {
	Profile  *domain.Profile              `json:"profile,omitempty"`
	Pending  []domain.ProfessionalRequest `json:"pending"`
	Accepted []domain.ProfessionalRequest `json:"accepted"`
	Errors   map[string]string            `json:"errors,omitempty"`
}

// RegisterView lists the services a professional can sign up for.
type RegisterView struct {
	Services []domain.Service  `json:"services"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type DashboardService interface {
	Admin(ctx context.Context, token string, q AdminQuery) *AdminDashboard
	Customer(ctx context.Context, token string, q CustomerQuery) *CustomerDashboard
	Professional(ctx context.Context, token string, q ProfessionalQuery) *ProfessionalDashboard
	Register(ctx context.Context, token string) *RegisterView
}
