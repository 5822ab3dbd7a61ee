package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/navigation"
	"github.com/household-services/frontend/internal/core/ports"
)

const defaultLogoutTimeout = 3 * time.Second

// upstreamError is implemented by errors that carry the API's HTTP status and
// its user-facing message.
type upstreamError interface {
	error
	HTTPStatus() int
	UpstreamMessage() string
}

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements login, registration and logout on top of the
// marketplace API and the caller's session store.
type AuthService struct {
	api           ports.AuthAPI
	logoutTimeout time.Duration
	onLogoutFail  func(error)
	log           zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLogoutFailureHook registers fn to be called whenever the remote logout
// call fails. The local session is cleared regardless.
func WithLogoutFailureHook(fn func(error)) AuthOption {
	return func(s *AuthService) { s.onLogoutFail = fn }
}

func NewAuthService(api ports.AuthAPI, logoutTimeout time.Duration, log zerolog.Logger, opts ...AuthOption) *AuthService {
	if logoutTimeout <= 0 {
		logoutTimeout = defaultLogoutTimeout
	}
	s := &AuthService{api: api, logoutTimeout: logoutTimeout, onLogoutFail: func(error) {}, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login exchanges credentials for a token, stores it in session and returns
// the dashboard path of the granted role.
func (s *AuthService) Login(ctx context.Context, session ports.SessionWriter, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", mapAuthError("login", err)
	}

	role := domain.ParseRole(res.Role)
	if err := session.SetSession(ctx, res.AccessToken, role); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("role", role.String()).Msg("user logged in")
	return navigation.DashboardPathFor(role), nil
}

// Register validates the form locally and forwards it to the API.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if in.Password != in.ConfirmPassword {
		return "", domain.ErrPasswordMismatch
	}
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	msg, err := s.api.Register(ctx, in)
	if err != nil {
		return "", mapAuthError("register", err)
	}

	s.log.Info().Str("role", in.Role).Msg("user registered")
	return msg, nil
}

// Logout revokes the token remotely on a best-effort basis, bounded by the
// logout timeout, and always clears the local session.
func (s *AuthService) Logout(ctx context.Context, session ports.SessionWriter) error {
	if session.IsAuthenticated() {
		remoteCtx, cancel := context.WithTimeout(ctx, s.logoutTimeout)
		err := s.api.Logout(remoteCtx, session.Token())
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
			s.onLogoutFail(err)
		}
	}

	if err := session.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// mapAuthError turns API failures into domain errors. Rejections keep the
// upstream message; outages stay ErrUpstreamUnavailable.
func mapAuthError(op string, err error) error {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var upErr upstreamError
	if errors.As(err, &upErr) && upErr.HTTPStatus() < 500 {
		if op == "login" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, upErr.UpstreamMessage())
		}
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
