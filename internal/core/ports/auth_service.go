package ports

import (
	"context"
	"io"

	"github.com/household-services/frontend/internal/core/domain"
)

// LoginResult is the body of a successful POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// Document is an uploaded verification file forwarded on registration.
type Document struct {
	Filename string
	Content  io.Reader
}

// RegisterInput carries the registration form. ContactNumber applies to
// customers; ServiceID and Document apply to professionals.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	ContactNumber   string
	ServiceID       string
	Document        *Document
}

// AuthAPI is the unauthenticated half of the marketplace API plus logout.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	Logout(ctx context.Context, token string) error
}

// SessionWriter is the subset of the session store the auth flow mutates.
type SessionWriter interface {
	IsAuthenticated() bool
	Token() string
	SetSession(ctx context.Context, token string, role domain.Role) error
	ClearSession(ctx context.Context) error
}

type AuthService interface {
	// Login authenticates against the API, stores the session and returns the
	// dashboard path for the granted role.
	Login(ctx context.Context, session SessionWriter, email, password string) (string, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	// Logout always clears the local session, whatever the remote call does.
	Logout(ctx context.Context, session SessionWriter) error
}
