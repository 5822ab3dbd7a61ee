package service

import (
	"context"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

// stubMarketplace serves canned listings; any *Err field makes the matching
// call fail.
type stubMarketplace struct {
	profile      *domain.Profile
	services     []domain.Service
	users        []domain.User
	custReqs     []domain.CustomerRequest
	proReqs      []domain.ProfessionalRequest
	adminReqs    []domain.AdminRequest
	profileErr   error
	servicesErr  error
	usersErr     error
	custReqsErr  error
	proReqsErr   error
	adminReqsErr error

	tokens chan string
}

func (m *stubMarketplace) seen(token string) {
	if m.tokens != nil {
		m.tokens <- token
	}
}

func (m *stubMarketplace) Profile(_ context.Context, token string) (*domain.Profile, error) {
	m.seen(token)
	return m.profile, m.profileErr
}

func (m *stubMarketplace) UpdateProfile(context.Context, string, ports.ProfileUpdate) (string, error) {
	return "Profile updated", nil
}

func (m *stubMarketplace) ListServices(_ context.Context, token string) ([]domain.Service, error) {
	m.seen(token)
	return m.services, m.servicesErr
}

func (m *stubMarketplace) CreateService(_ context.Context, _ string, in ports.ServiceInput) (*domain.Service, error) {
	return &domain.Service{ID: 1, Name: in.Name, Price: in.Price, Available: true}, nil
}

func (m *stubMarketplace) ToggleServiceAvailability(context.Context, string, int) (string, error) {
	return "toggled", nil
}

func (m *stubMarketplace) DeleteService(context.Context, string, int) (string, error) {
	return "deleted", nil
}

func (m *stubMarketplace) ListUsers(_ context.Context, token string) ([]domain.User, error) {
	m.seen(token)
	return m.users, m.usersErr
}

func (m *stubMarketplace) FlagUser(context.Context, string, int) (string, error) {
	return "flagged", nil
}

func (m *stubMarketplace) DeleteUser(context.Context, string, int) (string, error) {
	return "deleted", nil
}

func (m *stubMarketplace) ListCustomerRequests(_ context.Context, token string) ([]domain.CustomerRequest, error) {
	m.seen(token)
	return m.custReqs, m.custReqsErr
}

func (m *stubMarketplace) CreateRequest(context.Context, string, int) (string, error) {
	return "requested", nil
}

func (m *stubMarketplace) CancelRequest(context.Context, string, int) (string, error) {
	return "cancelled", nil
}

func (m *stubMarketplace) CompleteRequest(context.Context, string, int) (string, error) {
	return "completed", nil
}

func (m *stubMarketplace) RateRequest(context.Context, string, int, int) (string, error) {
	return "rated", nil
}

func (m *stubMarketplace) ListProfessionalRequests(_ context.Context, token string) ([]domain.ProfessionalRequest, error) {
	m.seen(token)
	return m.proReqs, m.proReqsErr
}

func (m *stubMarketplace) AcceptRequest(context.Context, string, int) (string, error) {
	return "accepted", nil
}

func (m *stubMarketplace) ListAdminRequests(_ context.Context, token string) ([]domain.AdminRequest, error) {
	m.seen(token)
	return m.adminReqs, m.adminReqsErr
}
