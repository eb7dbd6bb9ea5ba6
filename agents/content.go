package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const contentSystemPrompt = `You are a professional LinkedIn content strategist and copywriter. You help professionals optimize their LinkedIn profiles to attract recruiters and opportunities.

Your expertise includes:
- Writing compelling professional summaries/about sections
- Crafting impactful headlines
- Optimizing experience descriptions with metrics and achievements
- Using industry keywords for better visibility
- Following LinkedIn best practices

Guidelines:
- Use action verbs and quantifiable results when possible
- Include relevant industry keywords
- Write in first person for about sections
- Keep tone professional yet personable
- Focus on value proposition and achievements
- Avoid buzzwords and clichés
- Make content ATS-friendly

Response format:
- Provide specific, actionable content suggestions
- Use clear headings for different sections
- Include examples and templates
- Explain why changes improve the profile`

const contentFallbackResponse = `I'd be happy to help you improve your LinkedIn profile! Here are the areas I can work on:

**Professional Headline** - compelling, keyword-rich headlines that are recruiter-friendly
**About Section** - engaging summaries that highlight achievements and tell your story
**Experience Descriptions** - quantifiable achievements with action verbs, optimized for ATS systems
**Skills & Keywords** - relevant industry keywords aligned with your target roles

To get started, share your current content, tell me your goals, and mention your industry. For example: "Help me rewrite my LinkedIn headline" or "Improve my about section for data science roles".`

// ContentEnhancementAgent rewrites and improves LinkedIn profile content.
type ContentEnhancementAgent struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewContentEnhancementAgent creates the content enhancement stage.
func NewContentEnhancementAgent(provider llm.Provider, logger *zap.Logger) *ContentEnhancementAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentEnhancementAgent{
		provider: provider,
		logger:   logger.With(zap.String("component", "content_enhancement")),
	}
}

// Name implements workflow.Stage.
func (a *ContentEnhancementAgent) Name() string { return LabelContentEnhancement }

// Handle implements workflow.Stage.
func (a *ContentEnhancementAgent) Handle(ctx context.Context, st *workflow.State) (*workflow.State, error) {
	user := fmt.Sprintf("User Profile:\n%s\n\nUser's Request:\n%s\n\nPlease provide content enhancement suggestions based on their profile and specific request.",
		formatProfile(st.Profile), st.CurrentQuery)

	enhancement, err := complete(ctx, a.provider, contentSystemPrompt, user, 0.4)
	if err != nil || enhancement == "" {
		a.logger.Warn("content enhancement completion failed",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelContentEnhancement, contentFallbackResponse)
		return st, nil
	}

	st.AppendAssistant(LabelContentEnhancement, enhancement)
	return st, nil
}
