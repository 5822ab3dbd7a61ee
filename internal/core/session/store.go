// Package session holds the per-tab session store: the single source of truth
// for who is logged in and with which role.
//
// A Store is owned by exactly one request and is never shared between
// goroutines, so it carries no locking. Reads never touch storage; only
// Hydrate, SetSession and ClearSession do.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

const clearTimeout = 5 * time.Second

// Store is the authentication state of one browser tab.
type Store struct {
	storage ports.SessionStorage
	tabID   string
	ttl     time.Duration
	now     func() time.Time

	token string
	role  domain.Role
}

// NewStore returns an empty (anonymous) store bound to tabID. ttl is the
// storage expiry used when the token does not carry its own exp claim.
func NewStore(storage ports.SessionStorage, tabID string, ttl time.Duration) *Store {
	return &Store{storage: storage, tabID: tabID, ttl: ttl, now: time.Now}
}

// Hydrate replaces the in-memory state with whatever the tab has persisted.
// Blank, "undefined" and "null" tokens hydrate as anonymous. On a storage
// error the store is left anonymous and the error is returned.
func (s *Store) Hydrate(ctx context.Context) error {
	s.token, s.role = "", domain.RoleNone

	stored, err := s.storage.Load(ctx, s.tabID)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if domain.IsBlankToken(stored.Token) {
		return nil
	}

	s.token = strings.TrimSpace(stored.Token)
	s.role = domain.ParseRole(stored.Role)
	return nil
}

// SetSession persists token and role and then makes them current. A blank
// token or a role outside {admin, professional, customer} is rejected with
// domain.ErrInvalidSession before anything is written.
func (s *Store) SetSession(ctx context.Context, token string, role domain.Role) error {
	token = strings.TrimSpace(token)
	if domain.IsBlankToken(token) {
		return fmt.Errorf("%w: blank token", domain.ErrInvalidSession)
	}
	if !role.Known() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidSession, string(role))
	}

	stored := ports.StoredSession{Token: token, Role: string(role)}
	if err := s.storage.Save(ctx, s.tabID, stored, s.expiry(token)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.token, s.role = token, role
	return nil
}

// ClearSession forgets the session. Local state is always cleared first; a
// storage failure is reported but cannot resurrect the session in this store.
//
// The storage delete runs detached from ctx cancellation, bounded by
// clearTimeout, so an aborted request cannot leave the record behind.
func (s *Store) ClearSession(ctx context.Context) error {
	s.token, s.role = "", domain.RoleNone

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), clearTimeout)
	defer cancel()
	if err := s.storage.Delete(ctx, s.tabID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) IsAuthenticated() bool {
	return !domain.IsBlankToken(s.token)
}

func (s *Store) CurrentRole() domain.Role {
	if !s.IsAuthenticated() {
		return domain.RoleNone
	}
	return s.role
}

// Token returns the bearer credential, or "" when anonymous.
func (s *Store) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.token
}

func (s *Store) TabID() string {
	return s.tabID
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Session {
	return domain.Session{Token: s.Token(), Role: s.CurrentRole()}
}

// expiry derives the storage TTL from the token's exp claim when the token is
// a JWT. The signature is not checked; the claims only bound how long the
// record is kept.
func (s *Store) expiry(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.ttl
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.ttl
	}
	if ttl := exp.Sub(s.now()); ttl > 0 {
		return ttl
	}
	return s.ttl
}
