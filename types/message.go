package types

// Role identifies who produced a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatEntry is one entry in the per-turn conversation history threaded through
// the workflow. Stage records which stage produced the entry; it is empty for
// user messages.
type ChatEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Stage   string `json:"stage,omitempty"`
}

// JobFitAnalysis is the structured output of the job-fit stage.
type JobFitAnalysis struct {
	Score         int      `json:"score"`
	Summary       string   `json:"summary"`
	MissingSkills []string `json:"missing_skills"`
	Enhancements  []string `json:"enhancements"`
}

// CareerPathResult is the structured output of the career-guidance stage.
type CareerPathResult struct {
	Analysis        string   `json:"analysis"`
	Trajectory      string   `json:"trajectory"`
	UpskillingAreas []string `json:"upskilling_areas"`
}
