package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

// Dashboard sections, used as keys of the inline Errors maps.
const (
	SectionProfile  = "profile"
	SectionUsers    = "users"
	SectionServices = "services"
	SectionRequests = "requests"
)

type dashboardService struct {
	api ports.MarketplaceAPI
	log zerolog.Logger
}

// NewDashboardService returns a DashboardService backed by api.
func NewDashboardService(api ports.MarketplaceAPI, log zerolog.Logger) ports.DashboardService {
	return &dashboardService{api: api, log: log}
}

// sectionErrors collects per-section failures from concurrent loaders.
type sectionErrors struct {
	mu   sync.Mutex
	errs map[string]string
	log  zerolog.Logger
}

func (e *sectionErrors) record(section string, err error) {
	e.log.Warn().Err(err).Str("section", section).Msg("dashboard section failed to load")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.errs == nil {
		e.errs = make(map[string]string)
	}
	e.errs[section] = sectionMessage(section, err)
}

func sectionMessage(section string, err error) string {
	var upErr upstreamError
	if errors.As(err, &upErr) && upErr.UpstreamMessage() != "" && upErr.HTTPStatus() < 500 {
		return upErr.UpstreamMessage()
	}
	return "failed to load " + section
}

func (s *dashboardService) Admin(ctx context.Context, token string, q ports.AdminQuery) *ports.AdminDashboard {
	errs := &sectionErrors{log: s.log}
	var (
		wg       sync.WaitGroup
		users    []domain.User
		services []domain.Service
		requests []domain.AdminRequest
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if users, err = s.api.ListUsers(ctx, token); err != nil {
			errs.record(SectionUsers, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if services, err = s.api.ListServices(ctx, token); err != nil {
			errs.record(SectionServices, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if requests, err = s.api.ListAdminRequests(ctx, token); err != nil {
			errs.record(SectionRequests, err)
		}
	}()
	wg.Wait()

	out := &ports.AdminDashboard{
		Users:         nonNil(FilterUsers(users, q.User)),
		Services:      nonNil(FilterServices(services, q.Service)),
		Requests:      nonNil(FilterAdminRequests(requests, q.Request)),
		TotalUsers:    len(users),
		TotalServices: len(services),
		Errors:        errs.errs,
	}
	// The breakdown chart counts every user, not just the filtered ones.
	for _, u := range users {
		switch domain.ParseRole(u.Role) {
		case domain.RoleProfessional:
			out.Breakdown.Professionals++
		case domain.RoleCustomer:
			out.Breakdown.Customers++
		}
	}
	return out
}

func (s *dashboardService) Customer(ctx context.Context, token string, q ports.CustomerQuery) *ports.CustomerDashboard {
	errs := &sectionErrors{log: s.log}
	var (
		wg       sync.WaitGroup
		profile  *domain.Profile
		services []domain.Service
		requests []domain.CustomerRequest
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if profile, err = s.api.Profile(ctx, token); err != nil {
			errs.record(SectionProfile, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if services, err = s.api.ListServices(ctx, token); err != nil {
			errs.record(SectionServices, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if requests, err = s.api.ListCustomerRequests(ctx, token); err != nil {
			errs.record(SectionRequests, err)
		}
	}()
	wg.Wait()

	return &ports.CustomerDashboard{
		Profile:  profile,
		Services: nonNil(FilterServicesByName(services, q.Service)),
		Requests: nonNil(FilterCustomerRequestsByStatus(requests, q.Status)),
		Errors:   errs.errs,
	}
}

func (s *dashboardService) Professional(ctx context.Context, token string, q ports.ProfessionalQuery) *ports.ProfessionalDashboard {
	errs := &sectionErrors{log: s.log}
	var (
		wg       sync.WaitGroup
		profile  *domain.Profile
		requests []domain.ProfessionalRequest
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if profile, err = s.api.Profile(ctx, token); err != nil {
			errs.record(SectionProfile, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if requests, err = s.api.ListProfessionalRequests(ctx, token); err != nil {
			errs.record(SectionRequests, err)
		}
	}()
	wg.Wait()

	var pending, accepted []domain.ProfessionalRequest
	for _, r := range requests {
		switch r.Status {
		case domain.RequestPending:
			pending = append(pending, r)
		case domain.RequestAccepted, domain.RequestCompleted:
			accepted = append(accepted, r)
		}
	}

	return &ports.ProfessionalDashboard{
		Profile:  profile,
		Pending:  nonNil(FilterProfessionalRequestsByPrice(pending, q.Price)),
		Accepted: nonNil(FilterProfessionalRequestsByStatus(accepted, q.Status)),
		Errors:   errs.errs,
	}
}

// Register lists the services a professional may pick when signing up.
func (s *dashboardService) Register(ctx context.Context, token string) *ports.RegisterView {
	errs := &sectionErrors{log: s.log}
	services, err := s.api.ListServices(ctx, token)
	if err != nil {
		errs.record(SectionServices, err)
	}
	return &ports.RegisterView{Services: nonNil(services), Errors: errs.errs}
}

// nonNil keeps empty sections as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
