package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocalStore holds the opaque per-device JSON blobs a browser would keep in
// local storage (cart, chat history). Entries expire after ttl of inactivity.
type LocalStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewLocalStore(client *redis.Client, ttl time.Duration) *LocalStore {
	return &LocalStore{client: client, ttl: ttl}
}

func LocalKey(clientID, name string) string {
	return "local:" + clientID + ":" + name
}

// Get decodes the blob stored under key into dst and reports whether it existed.
func (s *LocalStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return true, nil
}

func (s *LocalStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *LocalStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
