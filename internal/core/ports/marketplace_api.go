package ports

import (
	"context"
	"io"

	"github.com/household-services/frontend/internal/core/domain"
)

// ProfileUpdate is the body of PUT /api/user-profile. Empty fields are left
// unchanged by the API; the password changes only when both are set.
type ProfileUpdate struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// ServiceInput is the body of POST /api/services.
type ServiceInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// MarketplaceAPI covers the bearer-authenticated CRUD endpoints.
type MarketplaceAPI interface {
	Profile(ctx context.Context, token string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (string, error)

	ListServices(ctx context.Context, token string) ([]domain.Service, error)
	CreateService(ctx context.Context, token string, in ServiceInput) (*domain.Service, error)
	ToggleServiceAvailability(ctx context.Context, token string, id int) (string, error)
	DeleteService(ctx context.Context, token string, id int) (string, error)

	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	FlagUser(ctx context.Context, token string, id int) (string, error)
	DeleteUser(ctx context.Context, token string, id int) (string, error)

	ListCustomerRequests(ctx context.Context, token string) ([]domain.CustomerRequest, error)
	CreateRequest(ctx context.Context, token string, serviceID int) (string, error)
	CancelRequest(ctx context.Context, token string, id int) (string, error)
	CompleteRequest(ctx context.Context, token string, id int) (string, error)
	RateRequest(ctx context.Context, token string, id, rating int) (string, error)

	ListProfessionalRequests(ctx context.Context, token string) ([]domain.ProfessionalRequest, error)
	AcceptRequest(ctx context.Context, token string, id int) (string, error)

	ListAdminRequests(ctx context.Context, token string) ([]domain.AdminRequest, error)
}

// ExportFile is a streamed export download. The caller closes Content.
type ExportFile struct {
	Name        string
	ContentType string
	Content     io.ReadCloser
}

// ExportAPI drives the asynchronous CSV export job.
type ExportAPI interface {
	StartExport(ctx context.Context, token string) (string, error)
	ExportStatus(ctx context.Context, token, taskID string) (*domain.ExportTask, error)
	// DownloadExport fetches the file a completed task points at.
	DownloadExport(ctx context.Context, token, file string) (*ExportFile, error)
}
