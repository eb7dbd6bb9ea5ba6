package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dhruvladia/career-coach-ai/types"
)

const sampleJD = `We are looking for a Senior Backend Engineer. Requirements: 5+ years of Go,
experience with Kubernetes and PostgreSQL, strong distributed systems background.
Responsibilities include designing APIs and mentoring junior engineers.`

func TestJobFitAnalyst_AnalyzesJobDescription(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"```json\n{\"score\": 120, \"summary\": \"Strong fit.\", \"missing_skills\": [\"a\",\"b\",\"c\",\"d\",\"e\",\"f\"], \"enhancements\": [\"x\",\"y\",\"z\",\"w\"]}\n```",
	}}
	agent := NewJobFitAnalyst(provider, nil)

	st := newTurnState("s", sampleJD, &types.UserProfile{Skills: []string{"Go"}})
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	var analysis types.JobFitAnalysis
	ok, err := st.GetScratch(LabelJobFitAnalyst, &analysis)
	if err != nil || !ok {
		t.Fatalf("scratch: ok=%v err=%v", ok, err)
	}
	if analysis.Score != 100 {
		t.Errorf("Score = %d, want clamped to 100", analysis.Score)
	}
	if len(analysis.MissingSkills) != 5 || len(analysis.Enhancements) != 3 {
		t.Errorf("lists not capped: %d missing, %d enhancements",
			len(analysis.MissingSkills), len(analysis.Enhancements))
	}

	entry := lastAssistantEntry(st)
	if entry == nil || !strings.Contains(entry.Content, "100% Fit Score") {
		t.Errorf("response missing score: %+v", entry)
	}
	if entry.Stage != LabelJobFitAnalyst {
		t.Errorf("entry stage = %q", entry.Stage)
	}
}

func TestJobFitAnalyst_NoJobDescription(t *testing.T) {
	provider := &fakeProvider{}
	agent := NewJobFitAnalyst(provider, nil)

	st := newTurnState("s", "can you analyze a job for me?", nil)
	st, err := agent.Handle(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	if provider.calls != 0 {
		t.Error("provider must not be called without a job description")
	}
	var analysis types.JobFitAnalysis
	if ok, _ := st.GetScratch(LabelJobFitAnalyst, &analysis); ok {
		t.Error("no analysis should be stored without a job description")
	}
	if entry := lastAssistantEntry(st); entry == nil || !strings.Contains(entry.Content, "paste the job description") {
		t.Errorf("expected guidance asking for a job description: %+v", entry)
	}
}

func TestJobFitAnalyst_Degrades(t *testing.T) {
	for name, provider := range map[string]*fakeProvider{
		"provider error":   {err: errors.New("upstream down")},
		"unparsable json":  {responses: []string{"the fit looks decent overall"}},
		"truncated output": {responses: []string{`{"score": 80,`}},
	} {
		t.Run(name, func(t *testing.T) {
			agent := NewJobFitAnalyst(provider, nil)
			st := newTurnState("s", sampleJD, nil)
			st, err := agent.Handle(context.Background(), st)
			if err != nil {
				t.Fatalf("analysis failures must degrade, got %v", err)
			}
			if entry := lastAssistantEntry(st); entry == nil || entry.Content != jobFitDegradedResponse {
				t.Errorf("expected degraded response, got %+v", entry)
			}
		})
	}
}

func TestExtractJobDescription(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"explicit marker", "here is the job description: need Go devs", true},
		{"requirements marker", "Requirements: 5 years of Go", true},
		{"short query without markers", "am I a good fit?", false},
		{"long pasted text without markers", strings.Repeat("senior golang engineer distributed systems ", 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJobDescription(tt.query) != ""
			if got != tt.want {
				t.Errorf("extractJobDescription(%q) found=%v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
