package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out token IDs until the token would have expired
// anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

var revoker Revoker = NewMemoryRevoker()

func SetRevoker(r Revoker) {
	revoker = r
}

func Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return revoker.Revoke(ctx, tokenID, until)
}

func IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return revoker.IsRevoked(ctx, tokenID)
}

// PruneRevoked clears expired entries from the in-process store. Redis expires
// its keys itself, so it reports zero there.
func PruneRevoked() int {
	if p, ok := revoker.(interface{ Prune(time.Time) int }); ok {
		return p.Prune(time.Now())
	}
	return 0
}

const revokedKeyPrefix = "escuela:revoked:"

type RedisRevoker struct {
	client *redis.Client
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevoker is used when no Redis is configured. Entries are lost on
// restart.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.prune(now)

	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

// Prune drops entries whose token has expired and returns how many it removed.
func (m *MemoryRevoker) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prune(now)
}

func (m *MemoryRevoker) prune(now time.Time) int {
	removed := 0
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(time.Now()) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
