package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const jobFitSystemPrompt = `You are JobFit-GPT, an expert tech recruiter and career coach. You will analyze a user's professional profile against a job description.

Your task is to:
1. Calculate a 'Job Fit Score' as a percentage (0-100) based ONLY on skills alignment and experience level
2. Provide a brief, 2-sentence summary of why they are or are not a good fit
3. List up to 5 'Missing Skills' from the job description that are not in their profile
4. List up to 3 'Profile Enhancement Suggestions' to better align their experience with the job requirements

Scoring Guidelines:
- 90-100%: Perfect match with all key skills and experience level
- 80-89%: Strong match with most skills, minor gaps
- 70-79%: Good match with some important skills missing
- 60-69%: Moderate match with several key skills missing
- 50-59%: Basic match with significant skill gaps
- Below 50%: Poor match with major skill/experience gaps

Respond with a single JSON object and nothing else:
{"score": <int>, "summary": "<string>", "missing_skills": ["<string>"], "enhancements": ["<string>"]}`

const jobFitNoJDResponse = `I'd be happy to analyze a job fit for you! Please paste the job description you'd like me to analyze against your profile.

You can share:
- The full job posting
- Just the requirements section
- Key skills and qualifications listed

Once you provide the job details, I'll give you a fit score, an analysis of your strengths for the role, the skills you might be missing, and suggestions to improve your profile.`

const jobFitDegradedResponse = "I encountered an issue analyzing the job fit. Please try rephrasing your request or check if the job description is clear and complete."

// jobIndicators mark a message as containing a job description.
var jobIndicators = []string{
	"job description", "requirements", "responsibilities",
	"qualifications", "skills required", "experience required",
	"we are looking for", "position", "role", "hiring",
}

// JobFitAnalyst scores the user's profile against a job description pasted
// into the conversation.
type JobFitAnalyst struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewJobFitAnalyst creates the job fit stage.
func NewJobFitAnalyst(provider llm.Provider, logger *zap.Logger) *JobFitAnalyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobFitAnalyst{
		provider: provider,
		logger:   logger.With(zap.String("component", "job_fit_analyst")),
	}
}

// Name implements workflow.Stage.
func (a *JobFitAnalyst) Name() string { return LabelJobFitAnalyst }

// Handle implements workflow.Stage. Provider and parse failures degrade to a
// canned summary so the turn still completes.
func (a *JobFitAnalyst) Handle(ctx context.Context, st *workflow.State) (*workflow.State, error) {
	jd := extractJobDescription(st.CurrentQuery)
	if jd == "" {
		st.AppendAssistant(LabelJobFitAnalyst, jobFitNoJDResponse)
		return st, nil
	}

	user := fmt.Sprintf("User Profile:\n%s\n\nJob Description:\n%s\n\nPlease analyze the job fit and provide your assessment.",
		formatProfile(st.Profile), jd)

	raw, err := complete(ctx, a.provider, jobFitSystemPrompt, user, 0.1)
	if err != nil {
		a.logger.Warn("job fit completion failed",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelJobFitAnalyst, jobFitDegradedResponse)
		return st, nil
	}

	var analysis types.JobFitAnalysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		a.logger.Warn("job fit completion not parsable",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelJobFitAnalyst, jobFitDegradedResponse)
		return st, nil
	}
	clampAnalysis(&analysis)

	if err := st.SetScratch(LabelJobFitAnalyst, analysis); err != nil {
		return nil, err
	}
	st.AppendAssistant(LabelJobFitAnalyst, formatAnalysisResponse(&analysis))
	return st, nil
}

// extractJobDescription pulls the job description out of the user message.
// Short messages without job posting markers are treated as not carrying one.
func extractJobDescription(query string) string {
	lower := strings.ToLower(query)
	for _, indicator := range jobIndicators {
		if strings.Contains(lower, indicator) {
			return query
		}
	}
	if len(strings.Fields(query)) < 20 {
		return ""
	}
	return query
}

func clampAnalysis(a *types.JobFitAnalysis) {
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}
	if len(a.MissingSkills) > 5 {
		a.MissingSkills = a.MissingSkills[:5]
	}
	if len(a.Enhancements) > 3 {
		a.Enhancements = a.Enhancements[:3]
	}
}

func formatAnalysisResponse(a *types.JobFitAnalysis) string {
	var fitLevel string
	switch {
	case a.Score >= 80:
		fitLevel = "Strong Match"
	case a.Score >= 60:
		fitLevel = "Good Match"
	default:
		fitLevel = "Needs Development"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Job Fit Analysis Results\n\n## %s - %d%% Fit Score\n\n%s\n", fitLevel, a.Score, a.Summary)
	if len(a.MissingSkills) > 0 {
		b.WriteString("\n## Skills to Develop\n")
		for _, skill := range a.MissingSkills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
	}
	if len(a.Enhancements) > 0 {
		b.WriteString("\n## Profile Enhancement Tips\n")
		for i, tip := range a.Enhancements {
			fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
		}
	}
	b.WriteString("\nWould you like me to help you develop any of these skills or enhance your profile content?")
	return b.String()
}
