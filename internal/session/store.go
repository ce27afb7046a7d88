package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"git-repository-analyzer/internal/redis"
)

var ErrSessionNotFound = errors.New("session not found")

// Selection is the persisted state of a session
type Selection struct {
	Repository string    `json:"repository,omitempty"`
	Path       string    `json:"path,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists selections by session id
type Store interface {
	Save(ctx context.Context, id string, sel Selection) error
	Load(ctx context.Context, id string) (Selection, error)
	// Exists reports whether id is still live without extending its ttl
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	selection Selection
	expires   time.Time
}

// MemoryStore keeps selections in process memory with a sliding ttl
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, id string, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{selection: sel, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return Selection{}, ErrSessionNotFound
	}
	if s.now().After(entry.expires) {
		delete(s.entries, id)
		return Selection{}, ErrSessionNotFound
	}

	entry.expires = s.now().Add(s.ttl)
	s.entries[id] = entry
	return entry.selection, nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if ok && s.now().After(entry.expires) {
		delete(s.entries, id)
		return false, nil
	}
	return ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// RedisStore keeps selections in Redis as JSON so they survive restarts
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, id string, sel Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.client.SetSession(ctx, id, data, s.ttl)
}

func (s *RedisStore) Load(ctx context.Context, id string) (Selection, error) {
	data, err := s.client.GetSession(ctx, id, s.ttl)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return Selection{}, ErrSessionNotFound
		}
		return Selection{}, err
	}

	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return Selection{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sel, nil
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	return s.client.SessionExists(ctx, id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteSession(ctx, id)
}
