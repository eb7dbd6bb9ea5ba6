package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

// RedisStateStore persists workflow checkpoints as JSON blobs in Redis.
// Checkpoints never expire; a suspended session can be resumed at any time.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore connects to Redis and verifies the connection.
func NewRedisStateStore(config RedisConfig) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	keyPrefix := config.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "coach:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix + "state:"}, nil
}

// NewRedisStateStoreWithClient wraps an existing client, sharing its
// connection pool.
func NewRedisStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "coach:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix + "state:"}
}

func (s *RedisStateStore) stateKey(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Load retrieves the checkpoint for a session.
func (s *RedisStateStore) Load(ctx context.Context, sessionID string) (*workflow.State, error) {
	data, err := s.client.Get(ctx, s.stateKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, types.NewError(types.ErrNotFound, "no checkpoint for session "+sessionID)
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to load checkpoint").WithCause(err)
	}

	var st workflow.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "checkpoint corrupted").WithCause(err)
	}
	return &st, nil
}

// Save overwrites the checkpoint for a session.
func (s *RedisStateStore) Save(ctx context.Context, sessionID string, st *workflow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to serialize checkpoint").WithCause(err)
	}
	if err := s.client.Set(ctx, s.stateKey(sessionID), data, 0).Err(); err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to save checkpoint").WithCause(err)
	}
	return nil
}

// Delete removes the checkpoint for a session.
func (s *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.stateKey(sessionID)).Err()
}

// Ping checks store health.
func (s *RedisStateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

var _ workflow.StateStore = (*RedisStateStore)(nil)
