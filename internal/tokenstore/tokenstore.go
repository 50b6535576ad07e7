// Package tokenstore remembers access tokens revoked by logout until they
// would have expired anyway.
package tokenstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type memoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore keeps revocations in process memory. now may be nil.
func NewMemoryStore(now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{revoked: make(map[string]time.Time), now: now}
}

func (m *memoryStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *memoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenID]
	return ok && exp.After(m.now()), nil
}

type redisStore struct {
	rdb *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewRedisStore shares revocations between instances. now may be nil.
func NewRedisStore(rdb *redis.Client, log *zap.Logger, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &redisStore{
		rdb: rdb,
		log: log.With(zap.String("store", "tokens")),
		now: now,
	}
}

func revokedKey(tokenID string) string {
	return "cookmyshow:revoked:" + tokenID
}

func (r *redisStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		r.log.Error("Failed to revoke token", zap.Error(err), zap.String("token_id", tokenID))
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (r *redisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
	return n > 0, nil
}
