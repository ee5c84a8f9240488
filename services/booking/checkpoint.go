package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"wanderstay/models"
)

// CheckpointStore persists the booking checkpoint across the external payment
// redirect. State is written and read as one atomic unit — never merged field
// by field — and last write wins per key. A nil state from Load means absent.
type CheckpointStore interface {
	Save(ctx context.Context, key string, state models.CheckpointState, ttl time.Duration) error
	Load(ctx context.Context, key string) (*models.CheckpointState, error)
	Clear(ctx context.Context, key string) error
}

// CheckpointKey derives the storage key for a hold. Keying by prebook id is
// what lets a return signal find its checkpoint after the browser comes back
// with nothing but the URL.
func CheckpointKey(prebookID string) string {
	return fmt.Sprintf("booking:checkpoint:%s", prebookID)
}

// RedisCheckpointStore is the production CheckpointStore.
type RedisCheckpointStore struct {
	Client *redis.Client
}

func NewRedisCheckpointStore(client *redis.Client) *RedisCheckpointStore {
	return &RedisCheckpointStore{Client: client}
}

func (s *RedisCheckpointStore) Save(ctx context.Context, key string, state models.CheckpointState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := s.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkpoint: %w", err)
	}
	return nil
}

func (s *RedisCheckpointStore) Load(ctx context.Context, key string) (*models.CheckpointState, error) {
	data, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	var state models.CheckpointState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	return &state, nil
}

func (s *RedisCheckpointStore) Clear(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

// MemoryCheckpointStore is an in-process CheckpointStore for tests and local
// development.
type MemoryCheckpointStore struct {
	mu      sync.Mutex
	entries map[string]memoryCheckpoint
}

type memoryCheckpoint struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{entries: make(map[string]memoryCheckpoint)}
}

func (s *MemoryCheckpointStore) Save(ctx context.Context, key string, state models.CheckpointState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryCheckpoint{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryCheckpointStore) Load(ctx context.Context, key string) (*models.CheckpointState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	var state models.CheckpointState
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemoryCheckpointStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
