package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api/handler"
	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/navigation"
	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/infrastructure/db/memory"
)

// roleLogin signs in with whatever role is typed as the password.
type roleLogin struct{}

func (roleLogin) Login(ctx context.Context, s ports.SessionWriter, _, password string) (string, error) {
	role := domain.ParseRole(password)
	if !role.Known() {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.SetSession(ctx, "tok-"+password, role); err != nil {
		return "", err
	}
	return navigation.DashboardPathFor(role), nil
}

func (roleLogin) Register(context.Context, ports.RegisterInput) (string, error) {
	return "User registered successfully", nil
}

func (roleLogin) Logout(ctx context.Context, s ports.SessionWriter) error {
	return s.ClearSession(ctx)
}

type emptyDashboards struct{}

func (emptyDashboards) Admin(context.Context, string, ports.AdminQuery) *ports.AdminDashboard {
	return &ports.AdminDashboard{}
}

func (emptyDashboards) Customer(context.Context, string, ports.CustomerQuery) *ports.CustomerDashboard {
	return &ports.CustomerDashboard{}
}

func (emptyDashboards) Professional(context.Context, string, ports.ProfessionalQuery) *ports.ProfessionalDashboard {
	return &ports.ProfessionalDashboard{}
}

func (emptyDashboards) Register(context.Context, string) *ports.RegisterView {
	return &ports.RegisterView{}
}

type acceptOnly struct {
	ports.MarketplaceAPI
}

func (acceptOnly) AcceptRequest(context.Context, string, int) (string, error) {
	return "Request accepted", nil
}

// readyExports serves one completed task "done"; everything else is pending.
type readyExports struct{}

func (readyExports) Start(context.Context, string) (*domain.ExportTask, error) {
	return &domain.ExportTask{TaskID: "done", Status: domain.ExportPending}, nil
}

func (readyExports) Status(_ context.Context, taskID string) (*domain.ExportTask, error) {
	if taskID == "done" {
		return &domain.ExportTask{TaskID: taskID, Status: domain.ExportCompleted, File: "/download/requests.csv"}, nil
	}
	return &domain.ExportTask{TaskID: taskID, Status: domain.ExportPending}, nil
}

func (readyExports) Poll(context.Context, ports.ExportPollJob) error { return nil }

func (readyExports) Download(_ context.Context, _ string, taskID string) (*ports.ExportFile, error) {
	if taskID != "done" {
		return nil, domain.ErrExportNotReady
	}
	return &ports.ExportFile{
		Name:        "requests.csv",
		ContentType: "text/csv",
		Content:     io.NopCloser(strings.NewReader("id\n1\n")),
	}, nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return NewRouter(Deps{
		Log:         zerolog.Nop(),
		Storage:     memory.NewSessionStorage(),
		Tab:         middleware.TabConfig{CookieName: "tab_id", TTL: time.Hour},
		Guard:       navigation.NewGuard(navigation.MustRouteTable(navigation.UnmatchedPublic, navigation.DefaultRoutes()...)),
		Auth:        roleLogin{},
		Dashboards:  emptyDashboards{},
		Marketplace: acceptOnly{},
		Exports:     readyExports{},
		Readiness:   map[string]handler.Pinger{},
		Registerer:  prometheus.NewRegistry(),
	})
}

func do(e *echo.Echo, method, path, tabID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tabID != "" {
		req.Header.Set(middleware.HeaderTabID, tabID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, tabID, role string) {
	t.Helper()
	rec := do(e, http.MethodPost, "/login", tabID, `{"email":"u@x.io","password":"`+role+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s: expected 200, got %d (%s)", role, rec.Code, rec.Body.String())
	}
}

func TestRouter_GuardedNavigation(t *testing.T) {
	e := newTestRouter(t)
	tab := uuid.NewString()

	rec := do(e, http.MethodGet, domain.PathProfessionalDashboard, tab, "")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != domain.PathLogin {
		t.Fatalf("anonymous dashboard: expected 302 to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	login(t, e, tab, "professional")

	rec = do(e, http.MethodGet, domain.PathProfessionalDashboard, tab, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("own dashboard: expected 200, got %d", rec.Code)
	}
	var view struct {
		View string `json:"view"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.View != string(domain.ViewProfessionalDashboard) {
		t.Fatalf("unexpected view %q", view.View)
	}

	rec = do(e, http.MethodGet, domain.PathLogin, tab, "")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != domain.PathProfessionalDashboard {
		t.Fatalf("login while signed in: expected 302 to dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = do(e, http.MethodGet, domain.PathTerms, tab, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("public page: expected 200, got %d", rec.Code)
	}
}

func TestRouter_TabsAreIsolated(t *testing.T) {
	e := newTestRouter(t)
	adminTab, otherTab := uuid.NewString(), uuid.NewString()

	login(t, e, adminTab, "admin")

	if rec := do(e, http.MethodGet, domain.PathAdminDashboard, adminTab, ""); rec.Code != http.StatusOK {
		t.Fatalf("signed-in tab: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, domain.PathAdminDashboard, otherTab, ""); rec.Code != http.StatusFound {
		t.Fatalf("other tab: expected 302, got %d", rec.Code)
	}
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	e := newTestRouter(t)
	tab := uuid.NewString()
	login(t, e, tab, "customer")

	rec := do(e, http.MethodPost, "/logout", tab, "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.PathHome {
		t.Fatalf("logout: expected 303 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if rec := do(e, http.MethodGet, domain.PathCustomerDashboard, tab, ""); rec.Code != http.StatusFound {
		t.Fatalf("after logout: expected 302, got %d", rec.Code)
	}
}

func TestRouter_ActionsEnforceRole(t *testing.T) {
	e := newTestRouter(t)
	tab := uuid.NewString()

	rec := do(e, http.MethodPut, "/professional/requests/4/accept", tab, "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.PathLogin {
		t.Fatalf("anonymous action: expected 303 to /login, got %d", rec.Code)
	}

	login(t, e, tab, "customer")
	if rec := do(e, http.MethodPut, "/professional/requests/4/accept", tab, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: expected 403, got %d", rec.Code)
	}

	other := uuid.NewString()
	login(t, e, other, "professional")
	if rec := do(e, http.MethodPut, "/professional/requests/4/accept", other, ""); rec.Code != http.StatusOK {
		t.Fatalf("own role: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_ExportDownload(t *testing.T) {
	e := newTestRouter(t)
	admin, customer := uuid.NewString(), uuid.NewString()
	login(t, e, admin, "admin")
	login(t, e, customer, "customer")

	if rec := do(e, http.MethodGet, "/admin/export/done/file", customer, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("customer download: expected 403, got %d", rec.Code)
	}

	rec := do(e, http.MethodGet, "/admin/export/done", admin, "")
	if !strings.Contains(rec.Body.String(), `"download":"/admin/export/done/file"`) {
		t.Fatalf("status must link the local download route: %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/admin/export/done/file", admin, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "id\n1\n" {
		t.Fatalf("admin download: expected 200 with csv, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(e, http.MethodGet, "/admin/export/pending/file", admin, ""); rec.Code != http.StatusConflict {
		t.Fatalf("pending download: expected 409, got %d", rec.Code)
	}
}

func TestRouter_LoginRejected(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/login", uuid.NewString(), `{"email":"u@x.io","password":"nobody"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_UnknownPathAndHealth(t *testing.T) {
	e := newTestRouter(t)

	if rec := do(e, http.MethodGet, "/no/such/page", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path: expected 404, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
}
