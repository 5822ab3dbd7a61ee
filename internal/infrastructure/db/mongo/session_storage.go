package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/infrastructure/db/tabkey"
)

const collectionTabSessions = "tab_sessions"

// SessionStorage keeps one document per tab, keyed by the hashed tab id.
// Expired documents are ignored on read and reaped by a TTL index.
type SessionStorage struct {
	col *mongo.Collection
	now func() time.Time
}

func NewSessionStorage(db *mongo.Database) *SessionStorage {
	return &SessionStorage{col: db.Collection(collectionTabSessions), now: time.Now}
}

type tabSessionDoc struct {
	ID        string     `bson:"_id"`
	Token     string     `bson:"token"`
	Role      string     `bson:"role"`
	UpdatedAt time.Time  `bson:"updated_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

func (s *SessionStorage) Load(ctx context.Context, tabID string) (ports.StoredSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tabSessionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": tabkey.Hash(tabID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.StoredSession{}, nil
		}
		return ports.StoredSession{}, fmt.Errorf("load tab session: %w", err)
	}

	// The TTL monitor runs about once a minute; do not serve stale documents.
	if doc.ExpiresAt != nil && !s.now().Before(*doc.ExpiresAt) {
		return ports.StoredSession{}, nil
	}
	return ports.StoredSession{Token: doc.Token, Role: doc.Role}, nil
}

// Save upserts the whole document so token and role always change together.
func (s *SessionStorage) Save(ctx context.Context, tabID string, session ports.StoredSession, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := s.now().UTC()
	doc := tabSessionDoc{
		ID:        tabkey.Hash(tabID),
		Token:     session.Token,
		Role:      session.Role,
		UpdatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		doc.ExpiresAt = &exp
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("save tab session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, tabID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": tabkey.Hash(tabID)}); err != nil {
		return fmt.Errorf("delete tab session: %w", err)
	}
	return nil
}

// EnsureIndexes creates the TTL index that reaps expired tab sessions.
func (s *SessionStorage) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
