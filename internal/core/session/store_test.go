package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

type stubStorage struct {
	records   map[string]ports.StoredSession
	ttls      map[string]time.Duration
	loadErr   error
	saveErr   error
	deleteErr error
	deletes   int
}

func newStubStorage() *stubStorage {
	return &stubStorage{
		records: make(map[string]ports.StoredSession),
		ttls:    make(map[string]time.Duration),
	}
}

func (s *stubStorage) Load(_ context.Context, tabID string) (ports.StoredSession, error) {
	if s.loadErr != nil {
		return ports.StoredSession{}, s.loadErr
	}
	return s.records[tabID], nil
}

func (s *stubStorage) Save(_ context.Context, tabID string, rec ports.StoredSession, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[tabID] = rec
	s.ttls[tabID] = ttl
	return nil
}

func (s *stubStorage) Delete(ctx context.Context, tabID string) error {
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(s.records, tabID)
	return nil
}

func TestStore_StartsAnonymous(t *testing.T) {
	st := NewStore(newStubStorage(), "tab-1", time.Hour)

	if st.IsAuthenticated() {
		t.Fatalf("new store must be anonymous")
	}
	if st.CurrentRole() != domain.RoleNone || st.Token() != "" {
		t.Fatalf("unexpected state: %+v", st.Snapshot())
	}
}

func TestStore_HydratePlaceholderTokens(t *testing.T) {
	for _, token := range []string{"", "undefined", "null", "  ", " null "} {
		storage := newStubStorage()
		storage.records["tab"] = ports.StoredSession{Token: token, Role: "admin"}

		st := NewStore(storage, "tab", time.Hour)
		if err := st.Hydrate(context.Background()); err != nil {
			t.Fatalf("hydrate: %v", err)
		}
		if st.IsAuthenticated() {
			t.Fatalf("token %q must hydrate as anonymous", token)
		}
		if st.CurrentRole() != domain.RoleNone {
			t.Fatalf("token %q: expected no role, got %s", token, st.CurrentRole())
		}
	}
}

func TestStore_HydrateValidSession(t *testing.T) {
	storage := newStubStorage()
	storage.records["tab"] = ports.StoredSession{Token: " abc123 ", Role: "Professional"}

	st := NewStore(storage, "tab", time.Hour)
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !st.IsAuthenticated() || st.Token() != "abc123" {
		t.Fatalf("expected authenticated abc123, got %+v", st.Snapshot())
	}
	if st.CurrentRole() != domain.RoleProfessional {
		t.Fatalf("expected professional, got %s", st.CurrentRole())
	}
}

func TestStore_HydrateUnknownRoleKeepsToken(t *testing.T) {
	storage := newStubStorage()
	storage.records["tab"] = ports.StoredSession{Token: "abc", Role: "superuser"}

	st := NewStore(storage, "tab", time.Hour)
	_ = st.Hydrate(context.Background())

	if !st.IsAuthenticated() || st.CurrentRole() != domain.RoleNone {
		t.Fatalf("expected authenticated session without role, got %+v", st.Snapshot())
	}
}

func TestStore_HydrateStorageErrorLeavesAnonymous(t *testing.T) {
	storage := newStubStorage()
	storage.records["tab"] = ports.StoredSession{Token: "abc", Role: "admin"}

	st := NewStore(storage, "tab", time.Hour)
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	storage.loadErr = errors.New("connection refused")
	if err := st.Hydrate(context.Background()); err == nil {
		t.Fatalf("expected hydrate error")
	}
	if st.IsAuthenticated() {
		t.Fatalf("failed hydrate must leave the store anonymous")
	}
}

func TestStore_SetSession(t *testing.T) {
	storage := newStubStorage()
	st := NewStore(storage, "tab", 30*time.Minute)

	if err := st.SetSession(context.Background(), "abc123", domain.RoleProfessional); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if !st.IsAuthenticated() || st.CurrentRole() != domain.RoleProfessional {
		t.Fatalf("unexpected state: %+v", st.Snapshot())
	}
	rec := storage.records["tab"]
	if rec.Token != "abc123" || rec.Role != "professional" {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}
	if storage.ttls["tab"] != 30*time.Minute {
		t.Fatalf("expected fallback ttl, got %s", storage.ttls["tab"])
	}
}

func TestStore_SetSessionRejectsMalformed(t *testing.T) {
	cases := []struct {
		token string
		role  domain.Role
	}{
		{"", domain.RoleAdmin},
		{"   ", domain.RoleCustomer},
		{"undefined", domain.RoleCustomer},
		{"abc", domain.RoleNone},
		{"abc", domain.Role("root")},
	}

	for _, tc := range cases {
		storage := newStubStorage()
		st := NewStore(storage, "tab", time.Hour)

		err := st.SetSession(context.Background(), tc.token, tc.role)
		if !errors.Is(err, domain.ErrInvalidSession) {
			t.Fatalf("SetSession(%q, %q): expected ErrInvalidSession, got %v", tc.token, string(tc.role), err)
		}
		if st.IsAuthenticated() || len(storage.records) != 0 {
			t.Fatalf("rejected session must not be stored")
		}
	}
}

func TestStore_SetSessionStorageFailureKeepsOldState(t *testing.T) {
	storage := newStubStorage()
	st := NewStore(storage, "tab", time.Hour)
	_ = st.SetSession(context.Background(), "old", domain.RoleCustomer)

	storage.saveErr = errors.New("disk full")
	err := st.SetSession(context.Background(), "new", domain.RoleAdmin)
	if err == nil || errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if st.Token() != "old" || st.CurrentRole() != domain.RoleCustomer {
		t.Fatalf("state changed despite failed persist: %+v", st.Snapshot())
	}
}

func TestStore_SetSessionUsesJWTExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": now.Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	storage := newStubStorage()
	st := NewStore(storage, "tab", 24*time.Hour)
	st.now = func() time.Time { return now }

	if err := st.SetSession(context.Background(), signed, domain.RoleAdmin); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if storage.ttls["tab"] != 15*time.Minute {
		t.Fatalf("expected ttl from exp claim, got %s", storage.ttls["tab"])
	}
}

func TestStore_SetSessionExpiredJWTFallsBack(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(-time.Minute).Unix(),
	})
	signed, _ := token.SignedString([]byte("k"))

	storage := newStubStorage()
	st := NewStore(storage, "tab", time.Hour)
	st.now = func() time.Time { return now }

	if err := st.SetSession(context.Background(), signed, domain.RoleCustomer); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if storage.ttls["tab"] != time.Hour {
		t.Fatalf("expected fallback ttl, got %s", storage.ttls["tab"])
	}
}

func TestStore_ClearSessionTwice(t *testing.T) {
	storage := newStubStorage()
	st := NewStore(storage, "tab", time.Hour)
	_ = st.SetSession(context.Background(), "abc", domain.RoleAdmin)

	for i := 0; i < 2; i++ {
		if err := st.ClearSession(context.Background()); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
		if st.IsAuthenticated() {
			t.Fatalf("clear #%d: still authenticated", i+1)
		}
	}
	if _, ok := storage.records["tab"]; ok {
		t.Fatalf("persisted record not removed")
	}
	if storage.deletes != 2 {
		t.Fatalf("expected 2 deletes, got %d", storage.deletes)
	}
}

func TestStore_ClearSessionStorageFailureStillClearsLocal(t *testing.T) {
	storage := newStubStorage()
	st := NewStore(storage, "tab", time.Hour)
	_ = st.SetSession(context.Background(), "abc", domain.RoleAdmin)

	storage.deleteErr = errors.New("timeout")
	if err := st.ClearSession(context.Background()); err == nil {
		t.Fatalf("expected storage error to be reported")
	}
	if st.IsAuthenticated() || st.CurrentRole() != domain.RoleNone {
		t.Fatalf("local state must be cleared: %+v", st.Snapshot())
	}
}

func TestStore_ClearSessionIgnoresCancelledContext(t *testing.T) {
	storage := newStubStorage()
	st := NewStore(storage, "tab", time.Hour)
	_ = st.SetSession(context.Background(), "abc", domain.RoleProfessional)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := st.ClearSession(ctx); err != nil {
		t.Fatalf("clear with cancelled context: %v", err)
	}
	if _, ok := storage.records["tab"]; ok {
		t.Fatalf("persisted record survived a cancelled request")
	}

	next := NewStore(storage, "tab", time.Hour)
	if err := next.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if next.IsAuthenticated() {
		t.Fatalf("next request must hydrate anonymous")
	}
}
