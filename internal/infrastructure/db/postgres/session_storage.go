package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/infrastructure/db/tabkey"
)

var _ ports.SessionStorage = (*SessionStorage)(nil)

// querier is the part of *pgxpool.Pool the storage uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStorage keeps one row per tab in tab_sessions, keyed by the hashed
// tab id. Expired rows are ignored on read and removed by PurgeExpired.
type SessionStorage struct {
	db  querier
	now func() time.Time
}

func NewSessionStorage(db querier) *SessionStorage {
	return &SessionStorage{db: db, now: time.Now}
}

// Migrate creates the tab_sessions table and its expiry index.
func (s *SessionStorage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tab_sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			role TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS tab_sessions_expires_at_idx ON tab_sessions (expires_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

func (s *SessionStorage) Load(ctx context.Context, tabID string) (ports.StoredSession, error) {
	const query = `SELECT token, role, expires_at FROM tab_sessions WHERE id = $1;`

	var (
		out       ports.StoredSession
		expiresAt *time.Time
	)
	err := s.db.QueryRow(ctx, query, tabkey.Hash(tabID)).Scan(&out.Token, &out.Role, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.StoredSession{}, nil
		}
		return ports.StoredSession{}, fmt.Errorf("load tab session: %w", err)
	}
	if expiresAt != nil && !s.now().Before(*expiresAt) {
		return ports.StoredSession{}, nil
	}
	return out, nil
}

// Save upserts the row so token and role always change together.
func (s *SessionStorage) Save(ctx context.Context, tabID string, session ports.StoredSession, ttl time.Duration) error {
	const query = `
	INSERT INTO tab_sessions (id, token, role, updated_at, expires_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET token = EXCLUDED.token, role = EXCLUDED.role,
		updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at;
	`
	now := s.now().UTC()
	var expiresAt *time.Time
	if ttl > 0 {
		exp := now.Add(ttl)
		expiresAt = &exp
	}

	if _, err := s.db.Exec(ctx, query, tabkey.Hash(tabID), session.Token, session.Role, now, expiresAt); err != nil {
		return fmt.Errorf("save tab session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, tabID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM tab_sessions WHERE id = $1;`, tabkey.Hash(tabID)); err != nil {
		return fmt.Errorf("delete tab session: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows whose expiry has passed and reports how many.
func (s *SessionStorage) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM tab_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1;`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge tab sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
