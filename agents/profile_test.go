package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

func TestProfileUpdater_ProposesConfirmation(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"has_updates": true, "updates": {"skills": ["Rust"]}}`,
	}}
	store := newFakeProfileStore()
	agent := NewProfileUpdaterAgent(provider, store, nil)

	st := newTurnState("s", "I just learned Rust", &types.UserProfile{SessionID: "s", Skills: []string{"Go"}})
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	if !st.RequiresHumanInput || st.Pending == nil {
		t.Fatal("new skill must suspend behind a confirmation")
	}
	if !strings.Contains(st.HumanInputPrompt, "Rust") {
		t.Errorf("prompt should name the skill: %q", st.HumanInputPrompt)
	}
	var payload types.ProfileUpdates
	if err := json.Unmarshal(st.Pending.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Skills) != 1 || payload.Skills[0] != "Rust" {
		t.Errorf("payload skills = %v", payload.Skills)
	}
	if store.applied != 0 {
		t.Error("nothing may be committed before confirmation")
	}
}

func TestProfileUpdater_KnownSkillIsNoOp(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"has_updates": true, "updates": {"skills": ["go"]}}`,
	}}
	agent := NewProfileUpdaterAgent(provider, newFakeProfileStore(), nil)

	st := newTurnState("s", "I know Go", &types.UserProfile{SessionID: "s", Skills: []string{"Go"}})
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	if st.RequiresHumanInput {
		t.Error("already-listed skill must not trigger a confirmation")
	}
	if entry := lastAssistantEntry(st); entry == nil || entry.Content != profileNoUpdatesResponse {
		t.Errorf("expected no-updates response, got %+v", entry)
	}
}

func TestProfileUpdater_NoUpdatesDetected(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"has_updates": false, "updates": {}}`,
	}}
	agent := NewProfileUpdaterAgent(provider, newFakeProfileStore(), nil)

	st := newTurnState("s", "how is the job market?", nil)
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if st.RequiresHumanInput {
		t.Error("no detected updates must not suspend")
	}
}

func TestProfileUpdater_DetectionFailureDegrades(t *testing.T) {
	for name, provider := range map[string]*fakeProvider{
		"provider error":      {err: errors.New("upstream down")},
		"unparsable response": {responses: []string{"sorry, I cannot do that"}},
	} {
		t.Run(name, func(t *testing.T) {
			agent := NewProfileUpdaterAgent(provider, newFakeProfileStore(), nil)
			st := newTurnState("s", "I learned Rust", nil)
			st, err := agent.Handle(context.Background(), st)
			if err != nil {
				t.Fatalf("detection failures must degrade, got %v", err)
			}
			if st.RequiresHumanInput {
				t.Error("degraded detection must not suspend")
			}
		})
	}
}

func TestProfileUpdater_ConfirmCommitsPayload(t *testing.T) {
	store := newFakeProfileStore()
	agent := NewProfileUpdaterAgent(&fakeProvider{}, store, nil)

	st := newTurnState("s", "yes", &types.UserProfile{SessionID: "s", Skills: []string{"Go"}})
	payload, _ := json.Marshal(&types.ProfileUpdates{Skills: []string{"Rust"}})
	st.RequestConfirmation(LabelProfileUpdater, "profile_update", "Add Rust?", payload)

	st, err := agent.Confirm(context.Background(), st, true)
	if err != nil {
		t.Fatal(err)
	}

	if !st.ProfileUpdated {
		t.Error("ProfileUpdated should be set after commit")
	}
	if store.applied != 1 {
		t.Errorf("store applied %d times, want 1", store.applied)
	}
	if st.Profile == nil || !st.Profile.HasSkill("Rust") {
		t.Error("state profile should reflect the committed mutation")
	}
	if entry := lastAssistantEntry(st); entry == nil || !strings.Contains(entry.Content, "Rust") {
		t.Errorf("commit message should name the skill: %+v", entry)
	}
}

func TestProfileUpdater_ConfirmDeclineDiscards(t *testing.T) {
	store := newFakeProfileStore()
	agent := NewProfileUpdaterAgent(&fakeProvider{}, store, nil)

	st := newTurnState("s", "no", nil)
	payload, _ := json.Marshal(&types.ProfileUpdates{Skills: []string{"Rust"}})
	st.RequestConfirmation(LabelProfileUpdater, "profile_update", "Add Rust?", payload)

	st, err := agent.Confirm(context.Background(), st, false)
	if err != nil {
		t.Fatal(err)
	}
	if st.ProfileUpdated || store.applied != 0 {
		t.Error("declined confirmation must not touch the store")
	}
	if entry := lastAssistantEntry(st); entry == nil || entry.Content != profileDeclineResponse {
		t.Errorf("expected decline response, got %+v", entry)
	}
}

func TestProfileUpdater_ConfirmStoreFailureDegrades(t *testing.T) {
	store := newFakeProfileStore()
	store.applyErr = errors.New("backend unavailable")
	agent := NewProfileUpdaterAgent(&fakeProvider{}, store, nil)

	st := newTurnState("s", "yes", nil)
	payload, _ := json.Marshal(&types.ProfileUpdates{Skills: []string{"Rust"}})
	st.RequestConfirmation(LabelProfileUpdater, "profile_update", "Add Rust?", payload)

	st, err := agent.Confirm(context.Background(), st, true)
	if err != nil {
		t.Fatalf("store failure must degrade, got %v", err)
	}
	if st.ProfileUpdated {
		t.Error("failed commit must not claim the profile was updated")
	}
	if entry := lastAssistantEntry(st); entry == nil || entry.Content != profileStoreFailureResponse {
		t.Errorf("expected store-failure response, got %+v", entry)
	}
}

func TestConfirmationPrompt(t *testing.T) {
	updates := &types.ProfileUpdates{
		Skills:     []string{"Rust", "Kubernetes"},
		Experience: []types.Experience{{Title: "Staff Engineer", Company: "Acme"}},
	}
	prompt := confirmationPrompt(updates)
	for _, want := range []string{"Rust", "Kubernetes", "Staff Engineer", "Acme", "(yes/no)"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt %q missing %q", prompt, want)
		}
	}
}

var _ workflow.ConfirmationHandler = (*ProfileUpdaterAgent)(nil)
