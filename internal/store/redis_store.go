package store

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"mailveil/internal/domain"
)

const defaultRedisPrefix = "mailveil:"

// RedisStore persists the broker state as a single JSON value under one
// key. SET replaces the value atomically, which satisfies the snapshot
// contract without temp files.
type RedisStore struct {
	client *backend.Client
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore connects to the given address.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key() string { return s.prefix + "state" }

// Load reads the last snapshot. A missing key yields the empty default;
// an unparseable value yields the empty default plus ErrCorrupt.
func (s *RedisStore) Load(ctx context.Context) (*domain.State, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err == backend.Nil {
		return domain.NewState(), nil
	}
	if err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	st := domain.NewState()
	if err := json.Unmarshal([]byte(val), st); err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return st, nil
}

// Save replaces the snapshot value.
func (s *RedisStore) Save(ctx context.Context, state *domain.State) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := s.client.Set(ctx, s.key(), b, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Compile-time assertion that RedisStore implements domain.StateStore.
var _ domain.StateStore = (*RedisStore)(nil)
