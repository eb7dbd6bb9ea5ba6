package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dhruvladia/career-coach-ai/types"
)

// MemoryProfileStore keeps profiles in process memory.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*types.UserProfile
}

// NewMemoryProfileStore creates an in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]*types.UserProfile)}
}

// Create stores a new profile.
func (s *MemoryProfileStore) Create(ctx context.Context, profile *types.UserProfile) error {
	return s.Save(ctx, profile)
}

// Get retrieves a profile.
func (s *MemoryProfileStore) Get(ctx context.Context, sessionID string) (*types.UserProfile, error) {
	s.mu.RLock()
	p, ok := s.profiles[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "no profile for session "+sessionID)
	}
	return cloneProfile(p)
}

// Save overwrites a profile.
func (s *MemoryProfileStore) Save(ctx context.Context, profile *types.UserProfile) error {
	clone, err := cloneProfile(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profiles[profile.SessionID] = clone
	s.mu.Unlock()
	return nil
}

// ApplyUpdates merges a mutation into the stored profile.
func (s *MemoryProfileStore) ApplyUpdates(ctx context.Context, sessionID string, updates *types.ProfileUpdates) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[sessionID]
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "no profile for session "+sessionID)
	}
	mergeUpdates(p, updates)
	return cloneProfile(p)
}

func cloneProfile(p *types.UserProfile) (*types.UserProfile, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to serialize profile").WithCause(err)
	}
	var out types.UserProfile
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to deserialize profile").WithCause(err)
	}
	return &out, nil
}

var _ ProfileStore = (*MemoryProfileStore)(nil)
