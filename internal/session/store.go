package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agrisense/internal/cache"
)

const (
	sessionKeyPrefix = "session:"
	// sweepInterval bounds how often Put scans the memory store for expired entries.
	sweepInterval = time.Minute
)

// Store keeps session state between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory; they vanish on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a copy of the stored session, or nil if absent or expired.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decode(entry.payload)
}

// Put stores a copy of s for ttl. It also drops expired entries, at most
// once per sweepInterval.
func (m *MemoryStore) Put(_ context.Context, s *Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
	}
	m.entries[s.ID] = memoryEntry{payload: payload, expiresAt: now.Add(ttl)}
	return nil
}

// sweep removes expired entries. The caller holds mu.
func (m *MemoryStore) sweep(now time.Time) {
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

// Len reports how many entries are held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// RedisStore keeps sessions in Redis under a per-process namespace, so a
// restart starts every user from an anonymous session.
type RedisStore struct {
	cache     *cache.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store that prefixes keys with instanceID.
func NewRedisStore(c *cache.Client, instanceID string) *RedisStore {
	return &RedisStore{cache: c, namespace: sessionKeyPrefix + instanceID + ":"}
}

// Get loads a session from Redis, or nil if it does not exist.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.cache.Get(ctx, r.namespace+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return decode(data)
}

// Put stores a session in Redis with TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.cache.Set(ctx, r.namespace+s.ID, payload, ttl)
}

// Delete removes a session from Redis.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.namespace+id)
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}
