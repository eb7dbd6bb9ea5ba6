package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/workflow"
)

// Stores bundles every persistence backend the coach uses.
type Stores struct {
	State   workflow.StateStore
	Profile ProfileStore
	History HistoryStore
}

// NewStores builds the configured persistence backends.
func NewStores(config StoreConfig, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "persistence"))

	stores := &Stores{}

	switch config.Backend {
	case "", "memory":
		stores.State = NewMemoryStateStore()
		stores.Profile = NewMemoryProfileStore()
		logger.Info("using in-memory checkpoint and profile stores")
	case "redis":
		stateStore, err := NewRedisStateStore(config.Redis)
		if err != nil {
			return nil, err
		}
		stores.State = stateStore
		// Share the state store's client for profiles.
		stores.Profile = NewRedisProfileStoreWithClient(stateStore.client, config.Redis.KeyPrefix)
		logger.Info("using Redis checkpoint and profile stores",
			zap.String("addr", fmt.Sprintf("%s:%d", config.Redis.Host, config.Redis.Port)))
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Backend)
	}

	switch config.History.Backend {
	case "", "memory":
		stores.History = NewMemoryHistoryStore()
	case "sqlite":
		history, err := NewSQLiteHistoryStore(config.History.Path)
		if err != nil {
			return nil, err
		}
		stores.History = history
		logger.Info("using SQLite history archive", zap.String("path", config.History.Path))
	default:
		return nil, fmt.Errorf("unknown history backend %q", config.History.Backend)
	}

	return stores, nil
}

// Close releases every backend that holds resources.
func (s *Stores) Close() error {
	var firstErr error
	if closer, ok := s.State.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if s.History != nil {
		if err := s.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
