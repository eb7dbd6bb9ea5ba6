package agents

import (
	"context"
	"sync"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

// fakeProvider replays scripted completions in order, repeating the last one.
type fakeProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	lastReq   *llm.ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return &llm.ChatResponse{Model: "fake", Content: f.responses[i]}, nil
}

// fakeProfileStore applies the documented merge semantics in memory.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*types.UserProfile
	applyErr error
	applied  int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*types.UserProfile{}}
}

func (s *fakeProfileStore) ApplyUpdates(ctx context.Context, sessionID string, updates *types.ProfileUpdates) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	s.applied++
	p, ok := s.profiles[sessionID]
	if !ok {
		p = &types.UserProfile{SessionID: sessionID}
		s.profiles[sessionID] = p
	}
	for _, skill := range updates.Skills {
		if !p.HasSkill(skill) {
			p.Skills = append(p.Skills, skill)
		}
	}
	p.Experience = append(p.Experience, updates.Experience...)
	if updates.About != "" {
		p.About = updates.About
	}
	if updates.Headline != "" {
		p.Headline = updates.Headline
	}
	return p, nil
}

func newTurnState(sessionID, query string, profile *types.UserProfile) *workflow.State {
	st := workflow.NewState(sessionID, profile)
	st.BeginTurn(query)
	return st
}

func lastAssistantEntry(st *workflow.State) *types.ChatEntry {
	for i := len(st.History) - 1; i >= 0; i-- {
		if st.History[i].Role == types.RoleAssistant {
			return &st.History[i]
		}
	}
	return nil
}
