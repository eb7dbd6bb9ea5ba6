package persistence

import (
	"context"
	"sync"

	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

// MemoryStateStore keeps workflow checkpoints in process memory. Suitable for
// development and tests; checkpoints do not survive a restart.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*workflow.State
}

// NewMemoryStateStore creates an in-memory checkpoint store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]*workflow.State)}
}

// Load retrieves the checkpoint for a session.
func (s *MemoryStateStore) Load(ctx context.Context, sessionID string) (*workflow.State, error) {
	s.mu.RLock()
	st, ok := s.states[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "no checkpoint for session "+sessionID)
	}
	// Callers get an isolated copy so a failed turn cannot corrupt the stored
	// checkpoint.
	return st.Clone()
}

// Save overwrites the checkpoint for a session.
func (s *MemoryStateStore) Save(ctx context.Context, sessionID string, st *workflow.State) error {
	clone, err := st.Clone()
	if err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to serialize checkpoint").WithCause(err)
	}
	s.mu.Lock()
	s.states[sessionID] = clone
	s.mu.Unlock()
	return nil
}

// Delete removes the checkpoint for a session.
func (s *MemoryStateStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}

var _ workflow.StateStore = (*MemoryStateStore)(nil)
