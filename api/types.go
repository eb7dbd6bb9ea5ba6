package api

import (
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

// StartSessionRequest begins a coaching session from a LinkedIn profile URL.
type StartSessionRequest struct {
	LinkedInURL string `json:"linkedin_url"`
}

// SessionResponse is the session bootstrap result. ProfileData is nil when
// scraping failed; the session still works and the profile can be built up in
// conversation.
type SessionResponse struct {
	SessionID   string             `json:"session_id"`
	Message     string             `json:"message"`
	ProfileData *types.UserProfile `json:"profile_data,omitempty"`
}

// ChatRequest carries one user message into the workflow.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ResumeRequest answers a suspended workflow's prompt.
type ResumeRequest struct {
	SessionID string `json:"session_id"`
	Input     string `json:"input"`
}

// ChatResponse is the turn result returned by chat and resume.
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	AgentType string   `json:"agent_type,omitempty"`
	Stages    []string `json:"stages,omitempty"`

	WorkflowStage  workflow.Phase     `json:"workflow_stage"`
	RequiresInput  bool               `json:"requires_input"`
	InputType      workflow.InputType `json:"input_type,omitempty"`
	Prompt         string             `json:"prompt,omitempty"`
	ProfileUpdated bool               `json:"profile_updated"`

	JobFitAnalysis *types.JobFitAnalysis   `json:"job_fit_analysis,omitempty"`
	CareerPath     *types.CareerPathResult `json:"career_path,omitempty"`
}

// ChatHistoryResponse wraps the archived conversation.
type ChatHistoryResponse struct {
	SessionID   string            `json:"session_id"`
	ChatHistory []types.ChatEntry `json:"chat_history"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// chatResponseFrom maps an engine turn result onto the wire shape.
func chatResponseFrom(result *workflow.TurnResult) *ChatResponse {
	return &ChatResponse{
		SessionID:      result.SessionID,
		Message:        result.Message,
		AgentType:      result.AgentType,
		Stages:         result.Stages,
		WorkflowStage:  result.WorkflowStage,
		RequiresInput:  result.RequiresInput,
		InputType:      result.InputType,
		Prompt:         result.Prompt,
		ProfileUpdated: result.ProfileUpdated,
		JobFitAnalysis: result.JobFit,
		CareerPath:     result.CareerPath,
	}
}
