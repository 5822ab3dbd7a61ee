// Package memory provides process-local implementations of the storage ports,
// used in development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/household-services/frontend/internal/core/ports"
)

type sessionRecord struct {
	session   ports.StoredSession
	expiresAt time.Time
}

// SessionStorage keeps tab sessions in a map. Safe for concurrent use.
type SessionStorage struct {
	mu      sync.RWMutex
	records map[string]sessionRecord
	now     func() time.Time
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{records: make(map[string]sessionRecord), now: time.Now}
}

func (rec sessionRecord) expired(now time.Time) bool {
	return !rec.expiresAt.IsZero() && !now.Before(rec.expiresAt)
}

// Load returns the record of tabID, or the zero record when it is missing or
// expired. An expired record is removed unless a Save replaced it meanwhile.
func (s *SessionStorage) Load(_ context.Context, tabID string) (ports.StoredSession, error) {
	s.mu.RLock()
	rec, ok := s.records[tabID]
	s.mu.RUnlock()

	if !ok {
		return ports.StoredSession{}, nil
	}
	now := s.now()
	if !rec.expired(now) {
		return rec.session, nil
	}

	s.mu.Lock()
	if cur, ok := s.records[tabID]; ok && cur.expired(now) {
		delete(s.records, tabID)
	}
	s.mu.Unlock()
	return ports.StoredSession{}, nil
}

func (s *SessionStorage) Save(_ context.Context, tabID string, session ports.StoredSession, ttl time.Duration) error {
	rec := sessionRecord{session: session}
	if ttl > 0 {
		rec.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.records[tabID] = rec
	s.mu.Unlock()
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, tabID string) error {
	s.mu.Lock()
	delete(s.records, tabID)
	s.mu.Unlock()
	return nil
}

// PurgeExpired deletes every expired record and reports how many.
func (s *SessionStorage) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for tabID, rec := range s.records {
		if rec.expired(now) {
			delete(s.records, tabID)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored records, expired ones included.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
