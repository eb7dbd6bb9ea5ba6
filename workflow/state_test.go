package workflow

import (
	"testing"

	"github.com/dhruvladia/career-coach-ai/types"
)

func TestState_BeginTurnResetsRoutingState(t *testing.T) {
	st := NewState("session-1", nil)
	st.BeginTurn("first message")
	st.RoutingPlan = []string{"job_fit_analyst"}
	st.ConsumeLabel("job_fit_analyst")
	st.RequestConfirmation("profile_updater", "profile_update", "Add Rust?", nil)
	st.Phase = PhaseAwaitingInput
	st.ClearHumanInput()

	st.BeginTurn("second message")

	if st.Turn != 2 {
		t.Errorf("Turn = %d, want 2", st.Turn)
	}
	if len(st.RoutingPlan) != 0 || len(st.RoutingHistory) != 0 {
		t.Error("routing plan and history should reset at turn start")
	}
	if st.Phase != PhaseProcessing {
		t.Errorf("Phase = %s, want processing", st.Phase)
	}
	if st.RequiresHumanInput || st.Pending != nil {
		t.Error("human input fields should be cleared at turn start")
	}
	if len(st.History) != 2 {
		t.Errorf("history length = %d, want 2 (history survives across turns)", len(st.History))
	}
}

func TestState_PendingLabels(t *testing.T) {
	st := NewState("session-1", nil)
	st.RoutingPlan = []string{"job_fit_analyst", "career_path"}

	pending := st.PendingLabels()
	if len(pending) != 2 || pending[0] != "job_fit_analyst" {
		t.Fatalf("PendingLabels() = %v", pending)
	}

	st.ConsumeLabel("job_fit_analyst")
	pending = st.PendingLabels()
	if len(pending) != 1 || pending[0] != "career_path" {
		t.Fatalf("PendingLabels() after consume = %v", pending)
	}
	if !st.HasRouted("job_fit_analyst") {
		t.Error("HasRouted should report consumed label")
	}

	st.ConsumeLabel("career_path")
	if len(st.PendingLabels()) != 0 {
		t.Error("PendingLabels should be empty when plan is exhausted")
	}
}

func TestState_ValidateInvariants(t *testing.T) {
	t.Run("requires input without awaiting phase", func(t *testing.T) {
		st := NewState("s", nil)
		st.RequiresHumanInput = true
		if err := st.Validate(); err == nil {
			t.Error("expected invariant violation")
		}
	})

	t.Run("awaiting phase without requires input", func(t *testing.T) {
		st := NewState("s", nil)
		st.Phase = PhaseAwaitingInput
		if err := st.Validate(); err == nil {
			t.Error("expected invariant violation")
		}
	})

	t.Run("pending without confirmation type", func(t *testing.T) {
		st := NewState("s", nil)
		st.Pending = &PendingConfirmation{Stage: "profile_updater"}
		if err := st.Validate(); err == nil {
			t.Error("expected invariant violation")
		}
	})

	t.Run("duplicate routing history", func(t *testing.T) {
		st := NewState("s", nil)
		st.RoutingHistory = []string{"a", "a"}
		if err := st.Validate(); err == nil {
			t.Error("expected invariant violation")
		}
	})

	t.Run("consistent suspended state", func(t *testing.T) {
		st := NewState("s", nil)
		st.RequestConfirmation("profile_updater", "profile_update", "Add Rust to your profile?", nil)
		st.Phase = PhaseAwaitingInput
		if err := st.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestState_CloneIsIndependent(t *testing.T) {
	st := NewState("session-1", &types.UserProfile{Name: "Dhruv", Skills: []string{"Go"}})
	st.BeginTurn("hello")
	st.RoutingPlan = []string{"career_path"}
	if err := st.SetScratch("career_path", map[string]string{"k": "v"}); err != nil {
		t.Fatal(err)
	}

	clone, err := st.Clone()
	if err != nil {
		t.Fatal(err)
	}

	clone.ConsumeLabel("career_path")
	clone.AppendAssistant("career_path", "guidance")
	clone.Profile.Skills = append(clone.Profile.Skills, "Rust")

	if len(st.RoutingHistory) != 0 {
		t.Error("mutating clone routing history leaked into original")
	}
	if len(st.History) != 1 {
		t.Error("mutating clone conversation history leaked into original")
	}
	if len(st.Profile.Skills) != 1 {
		t.Error("mutating clone profile leaked into original")
	}
}

func TestState_ScratchRoundTrip(t *testing.T) {
	st := NewState("session-1", nil)
	in := types.JobFitAnalysis{Score: 82, Summary: "strong match", MissingSkills: []string{"Kubernetes"}}
	if err := st.SetScratch("job_fit_analyst", in); err != nil {
		t.Fatal(err)
	}

	var out types.JobFitAnalysis
	ok, err := st.GetScratch("job_fit_analyst", &out)
	if err != nil || !ok {
		t.Fatalf("GetScratch: ok=%v err=%v", ok, err)
	}
	if out.Score != 82 || out.Summary != "strong match" {
		t.Errorf("scratch round trip mismatch: %+v", out)
	}

	var missing types.CareerPathResult
	ok, err = st.GetScratch("career_path", &missing)
	if err != nil || ok {
		t.Errorf("GetScratch for absent key: ok=%v err=%v", ok, err)
	}
}

func TestDecision_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       *Decision
		wantErr bool
	}{
		{"single label", &Decision{Labels: []string{"career_path"}}, false},
		{"multiple labels", &Decision{Labels: []string{"job_fit_analyst", "career_path"}}, false},
		{"zero labels", &Decision{}, true},
		{"nil decision", nil, true},
		{"duplicate labels", &Decision{Labels: []string{"career_path", "career_path"}}, true},
		{"empty label", &Decision{Labels: []string{""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !types.IsCode(err, types.ErrRoutingContract) {
				t.Errorf("error code = %s, want ROUTING_CONTRACT_VIOLATION", types.GetErrorCode(err))
			}
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, input := range []string{"yes", "Yes", " YES ", "y", "sure", "ok", "go ahead", "confirm", "yes!"} {
		if !IsAffirmative(input) {
			t.Errorf("IsAffirmative(%q) = false, want true", input)
		}
	}
	for _, input := range []string{"no", "nope", "", "maybe", "what does this mean?", "tell me more"} {
		if IsAffirmative(input) {
			t.Errorf("IsAffirmative(%q) = true, want false", input)
		}
	}
}
