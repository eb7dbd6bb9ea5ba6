package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dhruvladia/career-coach-ai/types"
)

func TestCareerPathAgent_StoresGuidance(t *testing.T) {
	guidance := strings.TrimSpace("Focus on Kubernetes and Leadership over the next two years. " +
		strings.Repeat("Build depth in distributed systems. ", 20))
	provider := &fakeProvider{responses: []string{guidance}}
	agent := NewCareerPathAgent(provider, nil)

	st := newTurnState("s", "how do I become a staff engineer?", &types.UserProfile{Headline: "Senior Engineer"})
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	var result types.CareerPathResult
	ok, err := st.GetScratch(LabelCareerPath, &result)
	if err != nil || !ok {
		t.Fatalf("scratch: ok=%v err=%v", ok, err)
	}
	if len(result.Analysis) > 503 {
		t.Errorf("analysis not truncated: %d bytes", len(result.Analysis))
	}
	found := false
	for _, area := range result.UpskillingAreas {
		if area == "Kubernetes" {
			found = true
		}
	}
	if !found {
		t.Errorf("upskilling areas %v should include Kubernetes", result.UpskillingAreas)
	}

	if entry := lastAssistantEntry(st); entry == nil || entry.Content != guidance {
		t.Error("full guidance should land in the conversation history")
	}
}

func TestCareerPathAgent_FallsBackOnProviderError(t *testing.T) {
	agent := NewCareerPathAgent(&fakeProvider{err: errors.New("upstream down")}, nil)

	st := newTurnState("s", "career advice please", nil)
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatalf("guidance failures must degrade, got %v", err)
	}
	if entry := lastAssistantEntry(st); entry == nil || entry.Content != careerPathFallbackResponse {
		t.Errorf("expected fallback response, got %+v", entry)
	}
}

func TestExtractUpskillingAreas(t *testing.T) {
	t.Run("caps at five", func(t *testing.T) {
		text := "Python JavaScript React AWS Docker Kubernetes Leadership"
		areas := extractUpskillingAreas(text)
		if len(areas) != 5 {
			t.Errorf("len = %d, want 5", len(areas))
		}
	})

	t.Run("defaults when nothing matches", func(t *testing.T) {
		areas := extractUpskillingAreas("keep doing what you are doing")
		if len(areas) != 5 || areas[0] != "Industry Knowledge" {
			t.Errorf("areas = %v, want defaults", areas)
		}
	})
}

func TestContentEnhancementAgent(t *testing.T) {
	t.Run("returns suggestions", func(t *testing.T) {
		provider := &fakeProvider{responses: []string{"## Headline\nTry: Staff Engineer | Distributed Systems"}}
		agent := NewContentEnhancementAgent(provider, nil)

		st := newTurnState("s", "improve my headline", &types.UserProfile{Headline: "Engineer"})
		st, err := agent.Handle(context.Background(), st)
		if err != nil {
			t.Fatal(err)
		}
		if entry := lastAssistantEntry(st); entry == nil || !strings.Contains(entry.Content, "Staff Engineer") {
			t.Errorf("expected suggestions, got %+v", entry)
		}
	})

	t.Run("falls back on provider error", func(t *testing.T) {
		agent := NewContentEnhancementAgent(&fakeProvider{err: errors.New("upstream down")}, nil)
		st := newTurnState("s", "improve my headline", nil)
		st, err := agent.Handle(context.Background(), st)
		if err != nil {
			t.Fatalf("enhancement failures must degrade, got %v", err)
		}
		if entry := lastAssistantEntry(st); entry == nil || entry.Content != contentFallbackResponse {
			t.Errorf("expected fallback, got %+v", entry)
		}
	})
}
