// Package idempotency remembers the outcome of reservation submissions so a retried
// request with the same Idempotency-Key replays the first answer instead of booking twice.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record is the response that was sent for a key.
type Record struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, key string, rec Record) error
}

// Key scopes a client supplied key to the user that sent it.
func Key(userID, clientKey string) string {
	return userID + ":" + strings.TrimSpace(clientKey)
}

type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "idem"
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("idempotency get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, fmt.Errorf("idempotency decode: %w", err)
	}
	return rec, true, nil
}

// Put stores rec unless the key already holds a record; the first answer wins.
func (s *RedisStore) Put(ctx context.Context, key string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.rdb.SetNX(ctx, s.prefix+":"+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency put: %w", err)
	}
	return nil
}

// ReadyCheck pings Redis for /readyz.
func (s *RedisStore) ReadyCheck(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// MemoryStore is the single-instance fallback used when Redis is not configured.
type MemoryStore struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	records map[string]memoryEntry
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{ttl: ttl, now: time.Now, records: map[string]memoryEntry{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[key]
	if !ok {
		return Record{}, false, nil
	}
	if s.now().After(e.expires) {
		delete(s.records, key)
		return Record{}, false, nil
	}
	return e.rec, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.records[key]; ok && !now.After(e.expires) {
		return nil
	}
	s.records[key] = memoryEntry{rec: rec, expires: now.Add(s.ttl)}
	s.evictExpired(now)
	return nil
}

func (s *MemoryStore) evictExpired(now time.Time) {
	for k, e := range s.records {
		if now.After(e.expires) {
			delete(s.records, k)
		}
	}
}
