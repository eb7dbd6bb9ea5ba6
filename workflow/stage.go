package workflow

import (
	"context"
	"fmt"
	"sync"
)

// Stage is the uniform contract across all specialist stages. Given the
// workflow state, a stage returns an updated state with its scratch entry
// populated, a human-readable summary appended to the conversation history,
// and optionally a confirmation request when its action has side effects the
// user should approve.
//
// Stages absorb their own external failures: a failing model call or store
// write becomes a degraded summary, not a returned error. A returned error
// means the fallback path itself failed.
type Stage interface {
	// Name returns the routing label this stage handles.
	Name() string
	// Handle processes the state and returns the updated state.
	Handle(ctx context.Context, st *State) (*State, error)
}

// ConfirmationHandler is the optional capability of stages that defer side
// effects behind a confirmation. The engine re-invokes the requesting stage
// through this interface on resume, with the checkpointed pending confirmation
// still attached to the state.
type ConfirmationHandler interface {
	// Confirm commits the deferred side effect when approved, or discards it
	// otherwise. Either way it appends an outcome summary to the history.
	Confirm(ctx context.Context, st *State, approved bool) (*State, error)
}

// DispatchTable is a pure mapping from routing label to the specialist stage
// that handles it.
type DispatchTable struct {
	mu           sync.RWMutex
	stages       map[string]Stage
	defaultLabel string
}

// NewDispatchTable creates an empty dispatch table.
func NewDispatchTable() *DispatchTable {
	return &DispatchTable{stages: make(map[string]Stage)}
}

// Register binds a label to a stage. Registering the same label twice is a
// wiring bug and is rejected.
func (t *DispatchTable) Register(label string, stage Stage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.stages[label]; ok {
		return fmt.Errorf("stage already registered for label: %s", label)
	}
	t.stages[label] = stage
	return nil
}

// SetDefault sets the fallback label used when a decision label resolves to no
// registered stage.
func (t *DispatchTable) SetDefault(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultLabel = label
}

// Resolve returns the stage for a label, falling back to the default stage
// when the label is unknown.
func (t *DispatchTable) Resolve(label string) (Stage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if stage, ok := t.stages[label]; ok {
		return stage, true
	}
	if t.defaultLabel != "" {
		stage, ok := t.stages[t.defaultLabel]
		return stage, ok
	}
	return nil, false
}

// Lookup returns the stage registered exactly under the label, without
// fallback.
func (t *DispatchTable) Lookup(label string) (Stage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	stage, ok := t.stages[label]
	return stage, ok
}

// Labels returns all registered labels.
func (t *DispatchTable) Labels() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	labels := make([]string, 0, len(t.stages))
	for label := range t.stages {
		labels = append(labels, label)
	}
	return labels
}
