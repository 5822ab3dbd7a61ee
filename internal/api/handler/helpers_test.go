package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/infrastructure/db/memory"
)

// newCtx builds an echo context whose tab session has been hydrated from
// storage. An empty token leaves the tab anonymous.
func newCtx(t *testing.T, method, target string, body io.Reader, token string, role domain.Role) (echo.Context, *httptest.ResponseRecorder, *memory.SessionStorage) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	storage := memory.NewSessionStorage()
	tabID := uuid.NewString()
	if token != "" {
		if err := storage.Save(context.Background(), tabID, ports.StoredSession{Token: token, Role: string(role)}, time.Hour); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, body)
	req.AddCookie(&http.Cookie{Name: "tab_id", Value: tabID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	hydrate := middleware.Tab(storage, middleware.TabConfig{CookieName: "tab_id", TTL: time.Hour}, zerolog.Nop())
	if err := hydrate(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return c, rec, storage
}

func httpErrCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

type stubAuthService struct {
	loginFn    func(ctx context.Context, s ports.SessionWriter, email, password string) (string, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, error)
	logoutFn   func(ctx context.Context, s ports.SessionWriter) error
}

func (a *stubAuthService) Login(ctx context.Context, s ports.SessionWriter, email, password string) (string, error) {
	return a.loginFn(ctx, s, email, password)
}

func (a *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	return a.registerFn(ctx, in)
}

func (a *stubAuthService) Logout(ctx context.Context, s ports.SessionWriter) error {
	return a.logoutFn(ctx, s)
}

type stubDashboards struct {
	admin    ports.AdminQuery
	customer ports.CustomerQuery
	pro      ports.ProfessionalQuery
	token    string
}

func (d *stubDashboards) Admin(_ context.Context, token string, q ports.AdminQuery) *ports.AdminDashboard {
	d.token, d.admin = token, q
	return &ports.AdminDashboard{TotalUsers: 7}
}

func (d *stubDashboards) Customer(_ context.Context, token string, q ports.CustomerQuery) *ports.CustomerDashboard {
	d.token, d.customer = token, q
	return &ports.CustomerDashboard{}
}

func (d *stubDashboards) Professional(_ context.Context, token string, q ports.ProfessionalQuery) *ports.ProfessionalDashboard {
	d.token, d.pro = token, q
	return &ports.ProfessionalDashboard{}
}

func (d *stubDashboards) Register(_ context.Context, token string) *ports.RegisterView {
	d.token = token
	return &ports.RegisterView{Services: []domain.Service{{ID: 1, Name: "Plumbing"}}}
}
