package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/infrastructure/db/tabkey"
)

const (
	sessionKeyPrefix = "tab-session:"
	fieldToken       = "token"
	fieldRole        = "role"
)

// SessionStorage keeps each tab's token and role in one Redis hash.
// Key format: tab-session:<blake2b(tab id)>
type SessionStorage struct {
	client *redis.Client
}

func NewSessionStorage(client *redis.Client) *SessionStorage {
	return &SessionStorage{client: client}
}

// Load returns an empty record when the key does not exist or has expired.
func (s *SessionStorage) Load(ctx context.Context, tabID string) (ports.StoredSession, error) {
	vals, err := s.client.HGetAll(ctx, s.key(tabID)).Result()
	if err != nil {
		return ports.StoredSession{}, fmt.Errorf("load tab session: %w", err)
	}
	return ports.StoredSession{Token: vals[fieldToken], Role: vals[fieldRole]}, nil
}

// Save replaces both fields and the expiry in one MULTI/EXEC block.
func (s *SessionStorage) Save(ctx context.Context, tabID string, session ports.StoredSession, ttl time.Duration) error {
	key := s.key(tabID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldToken, session.Token, fieldRole, session.Role)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save tab session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, tabID string) error {
	if err := s.client.Del(ctx, s.key(tabID)).Err(); err != nil {
		return fmt.Errorf("delete tab session: %w", err)
	}
	return nil
}

func (s *SessionStorage) key(tabID string) string {
	return sessionKeyPrefix + tabkey.Hash(tabID)
}
