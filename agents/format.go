package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

// complete runs a single system+user completion against the provider.
func complete(ctx context.Context, provider llm.Provider, system, user string, temperature float32) (string, error) {
	resp, err := provider.Completion(ctx, &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// recentHistory renders the last n conversation entries for prompt context.
func recentHistory(st *workflow.State, n int) string {
	history := st.History
	if len(history) > n {
		history = history[len(history)-n:]
	}
	var b strings.Builder
	for _, entry := range history {
		fmt.Fprintf(&b, "%s: %s\n", entry.Role, entry.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatProfile renders a profile for prompt injection. Long sections are
// truncated so a fully scraped profile does not blow the context window.
func formatProfile(p *types.UserProfile) string {
	if p == nil {
		return "[no profile on file]"
	}
	var lines []string
	if p.Name != "" {
		lines = append(lines, "Name: "+p.Name)
	}
	if p.Headline != "" {
		lines = append(lines, "Headline: "+p.Headline)
	}
	if p.About != "" {
		lines = append(lines, "About: "+truncate(p.About, 300))
	}
	if len(p.Skills) > 0 {
		skills := p.Skills
		if len(skills) > 15 {
			skills = skills[:15]
		}
		lines = append(lines, "Skills: "+strings.Join(skills, ", "))
	}
	if len(p.Experience) > 0 {
		lines = append(lines, "Experience:")
		for i, exp := range p.Experience {
			if i == 5 {
				break
			}
			line := fmt.Sprintf("  - %s at %s", orNA(exp.Title), orNA(exp.Company))
			if exp.Duration != "" {
				line += " (" + exp.Duration + ")"
			}
			lines = append(lines, line)
			if exp.Description != "" {
				lines = append(lines, "    "+truncate(exp.Description, 200))
			}
		}
	}
	if len(p.Education) > 0 {
		lines = append(lines, "Education:")
		for i, edu := range p.Education {
			if i == 2 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s in %s from %s",
				orNA(edu.Degree), orNA(edu.Field), orNA(edu.Institution)))
		}
	}
	if len(lines) == 0 {
		return "[empty profile]"
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// stripCodeFences unwraps a ```json ... ``` block when the model decorates its
// JSON output with markdown fences.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
