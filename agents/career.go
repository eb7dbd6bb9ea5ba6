package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const careerPathSystemPrompt = `You are CareerPath-GPT, a pragmatic and experienced career counselor. You provide realistic, actionable career guidance based on a user's current profile and goals.

Your approach:
1. Analyze the gap between their current role/skills and their desired goal
2. If the goal is realistic with their timeline, provide a step-by-step career trajectory
3. If the goal is unrealistic (e.g., Junior Developer to CTO in 2 years), you MUST state that the timeline is ambitious and provide a more realistic trajectory
4. Always be encouraging but ground expectations in reality
5. Provide specific, actionable advice
6. Suggest 5 key areas for upskilling

Response format:
- Use clear, encouraging markdown
- Include specific milestones with timeframes
- Provide actionable next steps
- Be honest about challenges while staying positive
- Focus on practical advice over generic platitudes`

const careerPathFallbackResponse = `I understand you're looking for career guidance. While I encountered a technical issue processing your specific request, I'd be happy to help you with:

**Career Trajectory Planning**
- Moving from your current role to your target position
- Realistic timelines and milestones
- Skills gap analysis

**Professional Development**
- Key skills to develop for your goals
- Learning resources and paths

**Job Search Strategy**
- Resume and LinkedIn optimization
- Interview preparation
- Networking advice

Please try rephrasing your question or let me know specifically what aspect of your career you'd like to focus on.`

// knownSkillAreas seeds the upskilling extraction; guidance text is scanned
// for mentions of these.
var knownSkillAreas = []string{
	"Python", "JavaScript", "React", "Node.js", "AWS", "Docker", "Kubernetes",
	"Machine Learning", "Data Science", "DevOps", "Cloud Computing",
	"Leadership", "Communication", "Project Management", "Strategic Thinking",
	"Team Management", "Negotiation", "Public Speaking",
}

var defaultUpskillingAreas = []string{
	"Industry Knowledge", "Technical Skills", "Leadership",
	"Communication", "Strategic Thinking",
}

// CareerPathAgent answers general career questions and trajectory planning.
// It is the routing fallback, so it must always produce something useful.
type CareerPathAgent struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewCareerPathAgent creates the career guidance stage.
func NewCareerPathAgent(provider llm.Provider, logger *zap.Logger) *CareerPathAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CareerPathAgent{
		provider: provider,
		logger:   logger.With(zap.String("component", "career_path_agent")),
	}
}

// Name implements workflow.Stage.
func (a *CareerPathAgent) Name() string { return LabelCareerPath }

// Handle implements workflow.Stage.
func (a *CareerPathAgent) Handle(ctx context.Context, st *workflow.State) (*workflow.State, error) {
	user := fmt.Sprintf("Current User Profile:\n%s\n\nUser's Career Question/Goal:\n%s\n\nChat History Context:\n%s\n\nPlease provide comprehensive career guidance.",
		formatProfile(st.Profile), st.CurrentQuery, recentHistory(st, 4))

	guidance, err := complete(ctx, a.provider, careerPathSystemPrompt, user, 0.3)
	if err != nil || guidance == "" {
		a.logger.Warn("career guidance completion failed",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelCareerPath, careerPathFallbackResponse)
		return st, nil
	}

	result := types.CareerPathResult{
		Analysis:        truncate(guidance, 500),
		Trajectory:      "Generated career trajectory",
		UpskillingAreas: extractUpskillingAreas(guidance),
	}
	if err := st.SetScratch(LabelCareerPath, result); err != nil {
		return nil, err
	}
	st.AppendAssistant(LabelCareerPath, guidance)
	return st, nil
}

// extractUpskillingAreas scans the guidance for known skill areas, capped at
// five, with generic defaults when nothing matches.
func extractUpskillingAreas(guidance string) []string {
	lower := strings.ToLower(guidance)
	var areas []string
	for _, skill := range knownSkillAreas {
		if strings.Contains(lower, strings.ToLower(skill)) {
			areas = append(areas, skill)
			if len(areas) == 5 {
				return areas
			}
		}
	}
	if len(areas) == 0 {
		return append([]string(nil), defaultUpskillingAreas...)
	}
	return areas
}
