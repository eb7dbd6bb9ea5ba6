package workflow

import (
	"strings"

	"github.com/dhruvladia/career-coach-ai/types"
)

// TurnResult is the response object for one turn: either a completed response
// aggregating every stage's summary, or a suspend response asking for human
// input.
type TurnResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	// AgentType is the primary stage of the turn (the last one that produced
	// output), kept for response compatibility with single-stage turns.
	AgentType string `json:"agent_type"`
	// Stages lists every stage dispatched this turn, in routing order.
	Stages        []string `json:"stages,omitempty"`
	WorkflowStage Phase    `json:"workflow_stage"`

	RequiresInput bool      `json:"requires_input"`
	InputType     InputType `json:"input_type,omitempty"`
	Prompt        string    `json:"prompt,omitempty"`

	ProfileUpdated bool                    `json:"profile_updated"`
	JobFit         *types.JobFitAnalysis   `json:"job_fit_analysis,omitempty"`
	CareerPath     *types.CareerPathResult `json:"career_path,omitempty"`
}

// Finalize merges all stage outputs for the turn into one response object.
// Summaries appear in routing order; structured payloads callers may want
// verbatim are lifted out of the scratch data. Pure aggregation, no state
// mutation beyond recording the final response text.
func Finalize(st *State) *TurnResult {
	summaries := turnSummaries(st)

	var parts []string
	var agentType string
	for _, label := range st.RoutingHistory {
		if text, ok := summaries[label]; ok {
			parts = append(parts, text)
			agentType = label
		}
	}
	message := strings.Join(parts, "\n\n")
	if message == "" {
		message = "I'm sorry, I couldn't process your request."
	}
	st.FinalResponse = message

	result := &TurnResult{
		SessionID:      st.SessionID,
		Message:        message,
		AgentType:      agentType,
		Stages:         append([]string(nil), st.RoutingHistory...),
		WorkflowStage:  st.Phase,
		ProfileUpdated: st.ProfileUpdated,
	}

	var jobFit types.JobFitAnalysis
	if ok, err := st.GetScratch("job_fit_analyst", &jobFit); ok && err == nil {
		result.JobFit = &jobFit
	}
	var career types.CareerPathResult
	if ok, err := st.GetScratch("career_path", &career); ok && err == nil {
		result.CareerPath = &career
	}

	return result
}

// turnSummaries collects the assistant entries appended since the turn's user
// message, keyed by producing stage. A stage appending multiple entries has
// them joined in order.
func turnSummaries(st *State) map[string]string {
	start := 0
	for i := len(st.History) - 1; i >= 0; i-- {
		if st.History[i].Role == types.RoleUser {
			start = i + 1
			break
		}
	}
	out := make(map[string]string)
	for _, entry := range st.History[start:] {
		if entry.Role != types.RoleAssistant || entry.Stage == "" {
			continue
		}
		if prev, ok := out[entry.Stage]; ok {
			out[entry.Stage] = prev + "\n\n" + entry.Content
		} else {
			out[entry.Stage] = entry.Content
		}
	}
	return out
}

// suspendResult builds the response returned to the caller when the turn
// suspends for human input.
func suspendResult(st *State) *TurnResult {
	return &TurnResult{
		SessionID:      st.SessionID,
		Message:        st.HumanInputPrompt,
		AgentType:      pendingStage(st),
		Stages:         append([]string(nil), st.RoutingHistory...),
		WorkflowStage:  st.Phase,
		RequiresInput:  true,
		InputType:      st.HumanInputType,
		Prompt:         st.HumanInputPrompt,
		ProfileUpdated: st.ProfileUpdated,
	}
}

func pendingStage(st *State) string {
	if st.Pending != nil {
		return st.Pending.Stage
	}
	return ""
}
