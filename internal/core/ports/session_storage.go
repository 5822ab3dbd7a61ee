package ports

import (
	"context"
	"time"
)

// StoredSession is the raw pair of scalar values kept in per-tab storage.
// Values are untrusted: the session store validates them on hydrate.
type StoredSession struct {
	Token string
	Role  string
}

// SessionStorage is the per-tab storage medium behind the session store.
// A missing record is not an error: Load returns a zero StoredSession.
type SessionStorage interface {
	Load(ctx context.Context, tabID string) (StoredSession, error)
	// Save writes both values atomically. ttl <= 0 means no expiry.
	Save(ctx context.Context, tabID string, s StoredSession, ttl time.Duration) error
	// Delete is idempotent.
	Delete(ctx context.Context, tabID string) error
}
