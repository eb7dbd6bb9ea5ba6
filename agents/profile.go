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

const profileUpdaterSystemPrompt = `You are a profile update detector. Analyze user messages to identify new skills or experience they mention.

You can update these fields:
- skills: Add new skills mentioned (e.g., "I know Python", "I'm learning React")
- experience: Add new job info (only if they provide company AND title)
- about: Update professional summary if provided
- headline: Update if they provide a new professional title

Rules:
1. Only add NEW information not already in their profile
2. For skills: Look for "I know", "I can", "I'm learning", "I use", etc.
3. For experience: Need both company name and job title
4. Be conservative - don't guess or infer
5. If no new info, return has_updates: false and empty updates

Respond with a single JSON object and nothing else:
{"has_updates": <bool>, "updates": {"skills": ["<string>"], "experience": [{"title": "<string>", "company": "<string>"}], "about": "<string>", "headline": "<string>"}}`

const profileNoUpdatesResponse = "I didn't spot anything new to add to your profile, but I'm listening. Tell me about new skills or roles any time."

const profileStoreFailureResponse = "I noted your information but couldn't update your profile right now. Please try again in a moment."

const profileDeclineResponse = "No problem, I left your profile unchanged. Let me know if you change your mind."

// ProfileStore commits confirmed profile mutations. The workflow never talks
// to the persistence layer directly; this narrow interface is all the updater
// needs.
type ProfileStore interface {
	ApplyUpdates(ctx context.Context, sessionID string, updates *types.ProfileUpdates) (*types.UserProfile, error)
}

// updateDetection is the wire shape of the detector completion.
type updateDetection struct {
	HasUpdates bool                  `json:"has_updates"`
	Updates    *types.ProfileUpdates `json:"updates"`
}

// ProfileUpdaterAgent detects new skills or experience in the user's message
// and proposes a profile mutation. The mutation is never committed directly:
// the stage suspends the turn behind a confirmation prompt, and only an
// affirmative resume calls through to the profile store.
type ProfileUpdaterAgent struct {
	provider llm.Provider
	store    ProfileStore
	logger   *zap.Logger
}

// NewProfileUpdaterAgent creates the profile update stage.
func NewProfileUpdaterAgent(provider llm.Provider, store ProfileStore, logger *zap.Logger) *ProfileUpdaterAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileUpdaterAgent{
		provider: provider,
		store:    store,
		logger:   logger.With(zap.String("component", "profile_updater")),
	}
}

// Name implements workflow.Stage.
func (a *ProfileUpdaterAgent) Name() string { return LabelProfileUpdater }

// Handle implements workflow.Stage. When the detector finds genuinely new
// information the turn suspends with the full mutation carried in the pending
// confirmation payload, so a later resume commits exactly what was proposed.
func (a *ProfileUpdaterAgent) Handle(ctx context.Context, st *workflow.State) (*workflow.State, error) {
	profileJSON, err := json.Marshal(st.Profile)
	if err != nil {
		return nil, err
	}
	user := fmt.Sprintf("Current profile:\n%s\n\nUser message:\n%s\n\nExtract any profile updates:",
		profileJSON, st.CurrentQuery)

	raw, err := complete(ctx, a.provider, profileUpdaterSystemPrompt, user, 0.1)
	if err != nil {
		a.logger.Warn("update detection failed",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelProfileUpdater, profileNoUpdatesResponse)
		return st, nil
	}

	var detection updateDetection
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &detection); err != nil {
		a.logger.Warn("update detection not parsable",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelProfileUpdater, profileNoUpdatesResponse)
		return st, nil
	}

	updates := filterKnown(st.Profile, detection.Updates)
	if !detection.HasUpdates || updates.IsEmpty() {
		st.AppendAssistant(LabelProfileUpdater, profileNoUpdatesResponse)
		return st, nil
	}

	payload, err := json.Marshal(updates)
	if err != nil {
		return nil, err
	}
	st.RequestConfirmation(LabelProfileUpdater, "profile_update", confirmationPrompt(updates), payload)
	a.logger.Info("profile update proposed, awaiting confirmation",
		zap.String("session_id", st.SessionID),
		zap.Int("new_skills", len(updates.Skills)),
		zap.Int("new_experience", len(updates.Experience)))
	return st, nil
}

// Confirm implements workflow.ConfirmationHandler. The pending payload is the
// single source of truth for what gets committed; nothing is re-derived.
func (a *ProfileUpdaterAgent) Confirm(ctx context.Context, st *workflow.State, approved bool) (*workflow.State, error) {
	if !approved {
		st.AppendAssistant(LabelProfileUpdater, profileDeclineResponse)
		return st, nil
	}
	if st.Pending == nil {
		return nil, types.NewError(types.ErrInvalidState, "no pending profile update to confirm")
	}

	var updates types.ProfileUpdates
	if err := json.Unmarshal(st.Pending.Payload, &updates); err != nil {
		return nil, types.NewError(types.ErrInternal, "pending profile update payload corrupted").WithCause(err)
	}

	profile, err := a.store.ApplyUpdates(ctx, st.SessionID, &updates)
	if err != nil {
		a.logger.Error("profile update commit failed",
			zap.String("session_id", st.SessionID),
			zap.Error(err))
		st.AppendAssistant(LabelProfileUpdater, profileStoreFailureResponse)
		return st, nil
	}

	st.Profile = profile
	st.ProfileUpdated = true
	st.AppendAssistant(LabelProfileUpdater, commitMessage(&updates))
	return st, nil
}

// filterKnown drops proposed skills the profile already lists, so the user is
// never asked to confirm a no-op.
func filterKnown(profile *types.UserProfile, updates *types.ProfileUpdates) *types.ProfileUpdates {
	if updates == nil {
		return &types.ProfileUpdates{}
	}
	out := &types.ProfileUpdates{
		Experience: updates.Experience,
		About:      updates.About,
		Headline:   updates.Headline,
	}
	for _, skill := range updates.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if profile != nil && profile.HasSkill(skill) {
			continue
		}
		out.Skills = append(out.Skills, skill)
	}
	return out
}

// confirmationPrompt phrases the proposed mutation as a yes/no question.
func confirmationPrompt(updates *types.ProfileUpdates) string {
	var parts []string
	if len(updates.Skills) > 0 {
		parts = append(parts, "add "+strings.Join(updates.Skills, ", ")+" to your skills")
	}
	if len(updates.Experience) > 0 {
		for _, exp := range updates.Experience {
			parts = append(parts, fmt.Sprintf("add %s at %s to your experience", exp.Title, exp.Company))
		}
	}
	if updates.Headline != "" {
		parts = append(parts, "update your headline to \""+updates.Headline+"\"")
	}
	if updates.About != "" {
		parts = append(parts, "update your professional summary")
	}
	return "Would you like me to " + strings.Join(parts, " and ") + "? (yes/no)"
}

// commitMessage summarizes what was just written to the profile.
func commitMessage(updates *types.ProfileUpdates) string {
	parts := []string{"Profile updated!"}
	if len(updates.Skills) > 0 {
		parts = append(parts, "- Added skills: "+strings.Join(updates.Skills, ", "))
	}
	if len(updates.Experience) > 0 {
		parts = append(parts, "- Updated work experience")
	}
	if updates.About != "" {
		parts = append(parts, "- Updated professional summary")
	}
	if updates.Headline != "" {
		parts = append(parts, "- Updated headline")
	}
	parts = append(parts, "\nYour profile is now more complete! This helps me provide better career guidance.")
	return strings.Join(parts, "\n")
}
