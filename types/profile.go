package types

import (
	"strings"
	"time"
)

// Experience is one position on a user profile.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Education is one schooling entry on a user profile.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// UserProfile is the persisted professional profile for one session.
type UserProfile struct {
	SessionID   string       `json:"session_id"`
	ProfileURL  string       `json:"profile_url"`
	Name        string       `json:"name,omitempty"`
	Headline    string       `json:"headline,omitempty"`
	About       string       `json:"about,omitempty"`
	Location    string       `json:"location,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	Experience  []Experience `json:"experience,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Connections int          `json:"connections,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasSkill reports whether the profile already lists the skill,
// case-insensitively.
func (p *UserProfile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// ProfileUpdates is a partial profile mutation awaiting commit. Skills are
// merged as a set union, experience entries are appended, scalar fields
// overwrite.
type ProfileUpdates struct {
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	About      string       `json:"about,omitempty"`
	Headline   string       `json:"headline,omitempty"`
}

// IsEmpty reports whether the mutation carries no changes.
func (u *ProfileUpdates) IsEmpty() bool {
	return u == nil ||
		(len(u.Skills) == 0 && len(u.Experience) == 0 && u.About == "" && u.Headline == "")
}
