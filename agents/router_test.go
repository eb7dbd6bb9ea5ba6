package agents

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRouterAgent_Route(t *testing.T) {
	tests := []struct {
		name         string
		completion   string
		wantLabels   []string
		wantFallback bool
	}{
		{
			name:       "single label",
			completion: "job_fit_analyst",
			wantLabels: []string{"job_fit_analyst"},
		},
		{
			name:       "multiple labels keep order",
			completion: "profile_updater, career_path",
			wantLabels: []string{"profile_updater", "career_path"},
		},
		{
			name:       "duplicates dropped",
			completion: "career_path, career_path, job_fit_analyst",
			wantLabels: []string{"career_path", "job_fit_analyst"},
		},
		{
			name:       "decorated completion",
			completion: "\"Profile_Updater\".",
			wantLabels: []string{"profile_updater"},
		},
		{
			name:         "unrecognized completion falls back",
			completion:   "I think the resume agent should handle this",
			wantLabels:   []string{"career_path"},
			wantFallback: true,
		},
		{
			name:         "empty completion falls back",
			completion:   "",
			wantLabels:   []string{"career_path"},
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{responses: []string{tt.completion}}
			router := NewRouterAgent(provider, nil)

			decision, err := router.Route(context.Background(), newTurnState("s", "help me", nil))
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(decision.Labels) != fmt.Sprint(tt.wantLabels) {
				t.Errorf("Labels = %v, want %v", decision.Labels, tt.wantLabels)
			}
			if decision.UsedFallback != tt.wantFallback {
				t.Errorf("UsedFallback = %v, want %v", decision.UsedFallback, tt.wantFallback)
			}
			if err := decision.Validate(); err != nil {
				t.Errorf("decision must always satisfy the routing contract: %v", err)
			}
		})
	}
}

func TestRouterAgent_ProviderErrorFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	router := NewRouterAgent(provider, nil)

	decision, err := router.Route(context.Background(), newTurnState("s", "help me", nil))
	if err != nil {
		t.Fatalf("router must absorb provider errors, got %v", err)
	}
	if !decision.UsedFallback || len(decision.Labels) != 1 || decision.Labels[0] != FallbackLabel {
		t.Errorf("decision = %+v, want fallback to %s", decision, FallbackLabel)
	}
}
