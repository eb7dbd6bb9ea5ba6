package persistence

import (
	"context"
	"time"

	"github.com/dhruvladia/career-coach-ai/types"
)

// ProfileStore persists user profiles keyed by session ID.
type ProfileStore interface {
	// Create stores a new profile and returns it. The caller assigns the
	// session ID.
	Create(ctx context.Context, profile *types.UserProfile) error
	// Get retrieves a profile. Returns a NOT_FOUND coded error when the
	// session is unknown.
	Get(ctx context.Context, sessionID string) (*types.UserProfile, error)
	// Save overwrites a profile.
	Save(ctx context.Context, profile *types.UserProfile) error
	// ApplyUpdates merges a partial mutation into the stored profile and
	// returns the result. Skills merge as a case-insensitive set union,
	// experience entries append, scalar fields overwrite when non-empty.
	ApplyUpdates(ctx context.Context, sessionID string, updates *types.ProfileUpdates) (*types.UserProfile, error)
}

// mergeUpdates applies the documented merge semantics in place.
func mergeUpdates(profile *types.UserProfile, updates *types.ProfileUpdates) {
	if updates == nil {
		return
	}
	for _, skill := range updates.Skills {
		if !profile.HasSkill(skill) {
			profile.Skills = append(profile.Skills, skill)
		}
	}
	profile.Experience = append(profile.Experience, updates.Experience...)
	if updates.About != "" {
		profile.About = updates.About
	}
	if updates.Headline != "" {
		profile.Headline = updates.Headline
	}
	profile.UpdatedAt = time.Now().UTC()
}
