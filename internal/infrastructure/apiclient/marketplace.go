package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

func (c *Client) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/user-profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ports.ProfileUpdate) (string, error) {
	return c.message(ctx, http.MethodPut, "/api/user-profile", token, in)
}

func (c *Client) ListServices(ctx context.Context, token string) ([]domain.Service, error) {
	var out []domain.Service
	if err := c.do(ctx, http.MethodGet, "/api/services", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createServiceResponse struct {
	Message string         `json:"message"`
	Service domain.Service `json:"service"`
}

func (c *Client) CreateService(ctx context.Context, token string, in ports.ServiceInput) (*domain.Service, error) {
	var out createServiceResponse
	if err := c.do(ctx, http.MethodPost, "/api/services", token, in, &out); err != nil {
		return nil, err
	}
	// New services start out available.
	out.Service.Available = true
	return &out.Service, nil
}

func (c *Client) ToggleServiceAvailability(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodPut, fmt.Sprintf("/api/services/%d/toggle-availability", id), token, struct{}{})
}

func (c *Client) DeleteService(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodDelete, fmt.Sprintf("/api/services/%d", id), token, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FlagUser(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/flag", id), token, struct{}{})
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), token, nil)
}

func (c *Client) ListCustomerRequests(ctx context.Context, token string) ([]domain.CustomerRequest, error) {
	var out []domain.CustomerRequest
	if err := c.do(ctx, http.MethodGet, "/api/request-service", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createRequestBody struct {
	ServiceID int `json:"service_id"`
}

func (c *Client) CreateRequest(ctx context.Context, token string, serviceID int) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/request-service", token, createRequestBody{ServiceID: serviceID})
}

func (c *Client) CancelRequest(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodDelete, fmt.Sprintf("/api/request-service/%d", id), token, nil)
}

func (c *Client) CompleteRequest(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodPatch, fmt.Sprintf("/api/request-service/%d/complete", id), token, struct{}{})
}

type rateBody struct {
	Rating int `json:"rating"`
}

func (c *Client) RateRequest(ctx context.Context, token string, id, rating int) (string, error) {
	return c.message(ctx, http.MethodPost, fmt.Sprintf("/api/request-service/%d/rate", id), token, rateBody{Rating: rating})
}

func (c *Client) ListProfessionalRequests(ctx context.Context, token string) ([]domain.ProfessionalRequest, error) {
	var out []domain.ProfessionalRequest
	if err := c.do(ctx, http.MethodGet, "/api/service-requests", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AcceptRequest(ctx context.Context, token string, id int) (string, error) {
	return c.message(ctx, http.MethodPut, fmt.Sprintf("/api/service-requests/%d/accept", id), token, struct{}{})
}

func (c *Client) ListAdminRequests(ctx context.Context, token string) ([]domain.AdminRequest, error) {
	var out []domain.AdminRequest
	if err := c.do(ctx, http.MethodGet, "/api/admin/service-requests", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
