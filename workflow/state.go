package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dhruvladia/career-coach-ai/types"
)

// Phase is the workflow state-machine position, persisted as "workflow_stage".
type Phase string

const (
	// PhaseProcessing is the initial phase of every turn.
	PhaseProcessing Phase = "processing"
	// PhaseAwaitingInput means the turn is suspended for human input and the
	// state is checkpointed.
	PhaseAwaitingInput Phase = "awaiting_input"
	// PhaseConfirmed is the transient phase between a resume call and the
	// continuation of dispatch. It is never observed at rest.
	PhaseConfirmed Phase = "confirmed"
	// PhaseCompleted is the terminal phase of a turn.
	PhaseCompleted Phase = "completed"
)

// InputType tags what kind of human input a suspended workflow is waiting for.
type InputType string

const (
	InputConfirmation  InputType = "confirmation"
	InputClarification InputType = "clarification"
)

// PendingConfirmation describes a deferred side effect awaiting explicit human
// approval. It must be fully self-contained: resuming later never re-derives
// the payload.
type PendingConfirmation struct {
	// Stage is the routing label of the stage that requested confirmation.
	Stage string `json:"stage"`
	// Kind names the side effect, e.g. "profile_update".
	Kind string `json:"kind"`
	// Prompt is the question shown to the user.
	Prompt string `json:"prompt"`
	// Payload is the stage-opaque change description.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// State is the workflow state threaded through every stage of a turn and
// persisted as the session checkpoint. Each stage consumes the fields it needs,
// writes its own scratch entry, and appends to the conversation history.
type State struct {
	SessionID    string             `json:"session_id"`
	Profile      *types.UserProfile `json:"user_profile,omitempty"`
	CurrentQuery string             `json:"current_user_query"`

	// History is the conversation history, append-only within a turn.
	History []types.ChatEntry `json:"conversation_history"`

	// RoutingPlan is the turn's routing decision, in dispatch order. It is
	// checkpointed so a suspended turn resumes the remaining labels without
	// re-routing.
	RoutingPlan []string `json:"routing_plan"`
	// RoutingHistory lists the labels already dispatched this turn.
	RoutingHistory []string `json:"routing_history"`

	// Scratch maps stage name to that stage's structured result. Opaque to the
	// engine; structurally known only to the stage that wrote it.
	Scratch map[string]json.RawMessage `json:"agent_scratchpad,omitempty"`

	Phase              Phase                `json:"workflow_stage"`
	RequiresHumanInput bool                 `json:"requires_human_input"`
	HumanInputType     InputType            `json:"human_input_type,omitempty"`
	HumanInputPrompt   string               `json:"human_input_prompt,omitempty"`
	HumanInputReceived string               `json:"human_input_received,omitempty"`
	Pending            *PendingConfirmation `json:"pending_confirmation,omitempty"`

	FinalResponse  string `json:"final_response,omitempty"`
	ProfileUpdated bool   `json:"profile_updated"`

	Turn      int       `json:"turn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates the initial state for a session.
func NewState(sessionID string, profile *types.UserProfile) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		Profile:   profile,
		Scratch:   make(map[string]json.RawMessage),
		Phase:     PhaseProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginTurn resets the per-turn fields and appends the user message. The
// conversation history and profile survive across turns; routing plan and
// history do not.
func (s *State) BeginTurn(userMessage string) {
	s.Turn++
	s.CurrentQuery = userMessage
	s.RoutingPlan = nil
	s.RoutingHistory = nil
	s.Phase = PhaseProcessing
	s.RequiresHumanInput = false
	s.HumanInputType = ""
	s.HumanInputPrompt = ""
	s.HumanInputReceived = ""
	s.Pending = nil
	s.FinalResponse = ""
	s.ProfileUpdated = false
	s.History = append(s.History, types.ChatEntry{Role: types.RoleUser, Content: userMessage})
	s.UpdatedAt = time.Now().UTC()
}

// AppendAssistant appends a stage-produced entry to the conversation history.
func (s *State) AppendAssistant(stage, content string) {
	s.History = append(s.History, types.ChatEntry{
		Role:    types.RoleAssistant,
		Content: content,
		Stage:   stage,
	})
}

// SetScratch stores a stage's structured result under its name.
func (s *State) SetScratch(stage string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal scratch for %s: %w", stage, err)
	}
	if s.Scratch == nil {
		s.Scratch = make(map[string]json.RawMessage)
	}
	s.Scratch[stage] = data
	return nil
}

// GetScratch unmarshals a stage's scratch entry into v. Returns false when no
// entry exists.
func (s *State) GetScratch(stage string, v any) (bool, error) {
	data, ok := s.Scratch[stage]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to unmarshal scratch for %s: %w", stage, err)
	}
	return true, nil
}

// PendingLabels returns the routing-plan labels not yet dispatched this turn,
// in plan order.
func (s *State) PendingLabels() []string {
	if len(s.RoutingPlan) == 0 {
		return nil
	}
	consumed := make(map[string]bool, len(s.RoutingHistory))
	for _, l := range s.RoutingHistory {
		consumed[l] = true
	}
	var pending []string
	for _, l := range s.RoutingPlan {
		if !consumed[l] {
			pending = append(pending, l)
		}
	}
	return pending
}

// HasRouted reports whether the label was already dispatched this turn.
func (s *State) HasRouted(label string) bool {
	for _, l := range s.RoutingHistory {
		if l == label {
			return true
		}
	}
	return false
}

// ConsumeLabel records a label as dispatched. The engine is the sole caller;
// this is what enforces at-most-once-per-stage-per-turn.
func (s *State) ConsumeLabel(label string) {
	s.RoutingHistory = append(s.RoutingHistory, label)
}

// ReplacePlanLabel rewrites the first occurrence of a routing-plan label.
// Used when a label resolves to the dispatch table's default stage.
func (s *State) ReplacePlanLabel(label, with string) {
	for i, l := range s.RoutingPlan {
		if l == label {
			s.RoutingPlan[i] = with
			return
		}
	}
}

// RequestConfirmation marks the state as needing human confirmation before the
// described side effect is committed.
func (s *State) RequestConfirmation(stage, kind, prompt string, payload json.RawMessage) {
	s.RequiresHumanInput = true
	s.HumanInputType = InputConfirmation
	s.HumanInputPrompt = prompt
	s.Pending = &PendingConfirmation{
		Stage:   stage,
		Kind:    kind,
		Prompt:  prompt,
		Payload: payload,
	}
}

// ClearHumanInput resets every human-interaction field. Called by the engine
// once a resume has been handled, approved or not.
func (s *State) ClearHumanInput() {
	s.RequiresHumanInput = false
	s.HumanInputType = ""
	s.HumanInputPrompt = ""
	s.HumanInputReceived = ""
	s.Pending = nil
}

// Validate checks the state-machine invariants. It is called by the engine
// after every phase transition.
func (s *State) Validate() error {
	if s.RequiresHumanInput != (s.Phase == PhaseAwaitingInput) {
		return types.NewError(types.ErrInternal,
			fmt.Sprintf("invariant violated: requires_human_input=%v but workflow_stage=%s", s.RequiresHumanInput, s.Phase))
	}
	if (s.Pending != nil) != (s.HumanInputType == InputConfirmation) {
		return types.NewError(types.ErrInternal,
			fmt.Sprintf("invariant violated: pending_confirmation set=%v but human_input_type=%q", s.Pending != nil, s.HumanInputType))
	}
	seen := make(map[string]bool, len(s.RoutingHistory))
	for _, l := range s.RoutingHistory {
		if seen[l] {
			return types.NewError(types.ErrInternal,
				fmt.Sprintf("invariant violated: duplicate label %q in routing history", l))
		}
		seen[l] = true
	}
	return nil
}

// Clone returns a deep copy of the state. The engine clones before each stage
// invocation so a failing stage cannot leave the state half-updated.
func (s *State) Clone() (*State, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to clone state: %w", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone state: %w", err)
	}
	if out.Scratch == nil {
		out.Scratch = make(map[string]json.RawMessage)
	}
	return &out, nil
}
