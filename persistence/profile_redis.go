package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dhruvladia/career-coach-ai/types"
)

// RedisProfileStore persists profiles as JSON blobs in Redis.
type RedisProfileStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisProfileStore connects to Redis and verifies the connection.
func NewRedisProfileStore(config RedisConfig) (*RedisProfileStore, error) {
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
	return NewRedisProfileStoreWithClient(client, config.KeyPrefix), nil
}

// NewRedisProfileStoreWithClient wraps an existing client, sharing its
// connection pool.
func NewRedisProfileStoreWithClient(client *redis.Client, keyPrefix string) *RedisProfileStore {
	if keyPrefix == "" {
		keyPrefix = "coach:"
	}
	return &RedisProfileStore{client: client, keyPrefix: keyPrefix + "profile:"}
}

func (s *RedisProfileStore) profileKey(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Create stores a new profile.
func (s *RedisProfileStore) Create(ctx context.Context, profile *types.UserProfile) error {
	return s.Save(ctx, profile)
}

// Get retrieves a profile.
func (s *RedisProfileStore) Get(ctx context.Context, sessionID string) (*types.UserProfile, error) {
	data, err := s.client.Get(ctx, s.profileKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, types.NewError(types.ErrNotFound, "no profile for session "+sessionID)
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to load profile").WithCause(err)
	}

	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "profile corrupted").WithCause(err)
	}
	return &p, nil
}

// Save overwrites a profile.
func (s *RedisProfileStore) Save(ctx context.Context, profile *types.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to serialize profile").WithCause(err)
	}
	if err := s.client.Set(ctx, s.profileKey(profile.SessionID), data, 0).Err(); err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to save profile").WithCause(err)
	}
	return nil
}

// ApplyUpdates merges a mutation into the stored profile.
func (s *RedisProfileStore) ApplyUpdates(ctx context.Context, sessionID string, updates *types.ProfileUpdates) (*types.UserProfile, error) {
	p, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	mergeUpdates(p, updates)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Close releases the Redis client.
func (s *RedisProfileStore) Close() error {
	return s.client.Close()
}

var _ ProfileStore = (*RedisProfileStore)(nil)
