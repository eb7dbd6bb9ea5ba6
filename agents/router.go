package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const routerSystemPrompt = `You are a routing agent for a career coaching AI system. Your job is to analyze user queries and route them to the appropriate specialized agents.

Available agents:
- profile_updater: When user provides new information about their skills, experience, or background
- job_fit_analyst: When user wants to analyze a job description or check job fit
- content_enhancement: When user wants help improving their LinkedIn profile content
- career_path: When user asks for career guidance, trajectory planning, or general advice

Rules:
1. Look for keywords and context clues in the user's message
2. Consider the chat history if relevant
3. Choose the most appropriate agent, or several when the message genuinely needs more than one, in the order they should run
4. If unclear, default to 'career_path' for general career questions

Respond with ONLY the agent names, comma-separated, e.g. "profile_updater" or "job_fit_analyst, career_path".`

// RouterAgent classifies the user message into an ordered list of specialist
// labels. It never fails a turn: provider errors and unusable completions both
// fall back to the general career_path specialist.
type RouterAgent struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewRouterAgent creates the routing stage.
func NewRouterAgent(provider llm.Provider, logger *zap.Logger) *RouterAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouterAgent{
		provider: provider,
		logger:   logger.With(zap.String("component", "router_agent")),
	}
}

// Route implements workflow.Router.
func (r *RouterAgent) Route(ctx context.Context, st *workflow.State) (*workflow.Decision, error) {
	user := "Current user query: " + st.CurrentQuery +
		"\n\nChat history context:\n" + recentHistory(st, 4) +
		"\n\nWhich agents should handle this query?"

	raw, err := complete(ctx, r.provider, routerSystemPrompt, user, 0.1)
	if err != nil {
		r.logger.Warn("routing completion failed, falling back",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		return &workflow.Decision{Labels: []string{FallbackLabel}, UsedFallback: true}, nil
	}

	labels := parseLabels(raw)
	if len(labels) == 0 {
		r.logger.Warn("routing completion unusable, falling back",
			zap.String("session_id", st.SessionID),
			zap.String("completion", raw))
		return &workflow.Decision{Labels: []string{FallbackLabel}, UsedFallback: true}, nil
	}

	r.logger.Debug("routed query",
		zap.String("session_id", st.SessionID),
		zap.Strings("labels", labels))
	return &workflow.Decision{Labels: labels}, nil
}

// parseLabels extracts valid labels from a completion, preserving order and
// dropping duplicates and anything unrecognized.
func parseLabels(raw string) []string {
	raw = strings.ToLower(stripCodeFences(raw))
	seen := make(map[string]bool, 4)
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		label := strings.Trim(strings.TrimSpace(part), `"'.`)
		if ValidLabel(label) && !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}
