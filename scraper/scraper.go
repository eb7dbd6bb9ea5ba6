// Package scraper fetches LinkedIn profile data through the Apify actor API
// and normalizes the actor's loosely-shaped output into a UserProfile.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/types"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"
	defaultActorID = "2SyF0bVxmgGr8IVCZ"
	defaultTimeout = 120 * time.Second

	maxSkills     = 20
	maxExperience = 10
)

// Config holds Apify scraper settings.
type Config struct {
	APIToken string        `yaml:"api_token" json:"api_token"`
	BaseURL  string        `yaml:"base_url" json:"base_url"`
	ActorID  string        `yaml:"actor_id" json:"actor_id"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns production defaults. APIToken must still be supplied.
func DefaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		ActorID: defaultActorID,
		Timeout: defaultTimeout,
	}
}

// Scraper fetches profiles. Implementations return a nil profile without an
// error when the profile simply could not be scraped; sessions start with an
// empty profile in that case.
type Scraper interface {
	ScrapeProfile(ctx context.Context, profileURL string) (*types.UserProfile, error)
}

// ApifyScraper calls the Apify run-sync-get-dataset-items endpoint, which runs
// the actor and returns its dataset in one request.
type ApifyScraper struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewApifyScraper creates an Apify-backed scraper.
func NewApifyScraper(config Config, logger *zap.Logger) *ApifyScraper {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.ActorID == "" {
		config.ActorID = defaultActorID
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApifyScraper{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("component", "linkedin_scraper")),
	}
}

// actorInput is the actor's expected run input.
type actorInput struct {
	ProfileURLs []string `json:"profileUrls"`
}

// ScrapeProfile runs the actor for one profile URL. Scrape failures are soft:
// the caller gets (nil, nil) and the session proceeds without profile data.
func (s *ApifyScraper) ScrapeProfile(ctx context.Context, profileURL string) (*types.UserProfile, error) {
	body, err := json.Marshal(actorInput{ProfileURLs: []string{profileURL}})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		s.config.BaseURL, s.config.ActorID, url.QueryEscape(s.config.APIToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.Info("starting profile scrape", zap.String("profile_url", profileURL))

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("profile scrape failed", zap.String("profile_url", profileURL), zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		s.logger.Warn("profile scrape returned error status",
			zap.String("profile_url", profileURL),
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var items []map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil || len(items) == 0 {
		s.logger.Warn("profile scrape returned no usable data",
			zap.String("profile_url", profileURL),
			zap.Error(err))
		return nil, nil
	}

	profile := normalizeProfile(items[0])
	profile.ProfileURL = profileURL
	s.logger.Info("profile scraped",
		zap.String("profile_url", profileURL),
		zap.String("name", profile.Name),
		zap.Int("skills", len(profile.Skills)))
	return profile, nil
}

// normalizeProfile maps the actor's loosely-shaped item onto a UserProfile.
// The actor output format varies, so every field tries several key spellings.
func normalizeProfile(raw map[string]json.RawMessage) *types.UserProfile {
	now := time.Now().UTC()
	return &types.UserProfile{
		Name:        firstString(raw, "name", "fullName"),
		Headline:    firstString(raw, "headline", "title"),
		About:       firstString(raw, "about", "summary"),
		Location:    firstString(raw, "location"),
		Connections: firstInt(raw, "connections", "connectionsCount"),
		Skills:      extractSkills(raw),
		Experience:  extractExperience(raw),
		Education:   extractEducation(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func extractSkills(raw map[string]json.RawMessage) []string {
	var skills []string
	for _, field := range []string{"skills", "skillsList", "userSkills"} {
		items, ok := rawList(raw, field)
		if !ok {
			continue
		}
		for _, item := range items {
			var name string
			if err := json.Unmarshal(item, &name); err == nil {
				if name != "" {
					skills = append(skills, name)
				}
				continue
			}
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err == nil {
				if name := firstString(obj, "name", "skill", "title"); name != "" {
					skills = append(skills, name)
				}
			}
		}
		break
	}
	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

func extractExperience(raw map[string]json.RawMessage) []types.Experience {
	var experience []types.Experience
	for _, field := range []string{"experience", "positions", "workExperience", "jobs"} {
		items, ok := rawList(raw, field)
		if !ok {
			continue
		}
		for _, item := range items {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			experience = append(experience, types.Experience{
				Title:       firstString(obj, "title", "position"),
				Company:     firstString(obj, "company", "companyName"),
				Duration:    formatDuration(obj),
				Description: firstString(obj, "description"),
				Location:    firstString(obj, "location"),
			})
		}
		break
	}
	if len(experience) > maxExperience {
		experience = experience[:maxExperience]
	}
	return experience
}

func extractEducation(raw map[string]json.RawMessage) []types.Education {
	var education []types.Education
	for _, field := range []string{"education", "schools", "educationList"} {
		items, ok := rawList(raw, field)
		if !ok {
			continue
		}
		for _, item := range items {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			education = append(education, types.Education{
				Institution: firstString(obj, "school", "schoolName", "institution"),
				Degree:      firstString(obj, "degree", "degreeName"),
				Field:       firstString(obj, "field", "fieldOfStudy"),
				Duration:    formatSchoolDuration(obj),
			})
		}
		break
	}
	return education
}

// formatDuration renders "start - end" from position dates, falling back to a
// literal duration field. Dates arrive as strings or {month, year} objects.
func formatDuration(position map[string]json.RawMessage) string {
	start := dateString(position, "startDate", "start")
	end := dateString(position, "endDate", "end")
	if end == "" {
		end = "Present"
	}
	if start != "" {
		return start + " - " + end
	}
	return firstString(position, "duration")
}

func formatSchoolDuration(school map[string]json.RawMessage) string {
	start := firstScalar(school, "startYear", "start")
	end := firstScalar(school, "endYear", "end")
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " - Present"
	}
	return firstString(school, "duration")
}

func dateString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		data, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(data, &s); err == nil && s != "" {
			return s
		}
		var parts struct {
			Month json.Number `json:"month"`
			Year  json.Number `json:"year"`
		}
		if err := json.Unmarshal(data, &parts); err == nil && parts.Year.String() != "" {
			return fmt.Sprintf("%s/%s", parts.Month, parts.Year)
		}
	}
	return ""
}

func rawList(obj map[string]json.RawMessage, key string) ([]json.RawMessage, bool) {
	data, ok := obj[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		data, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(data, &s); err == nil && s != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstScalar accepts either a string or a number and renders it as text.
func firstScalar(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		data, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(data, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil && n.String() != "" {
			return n.String()
		}
	}
	return ""
}

func firstInt(obj map[string]json.RawMessage, keys ...string) int {
	for _, key := range keys {
		data, ok := obj[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(data, &n); err == nil && n != 0 {
			return n
		}
	}
	return 0
}

var _ Scraper = (*ApifyScraper)(nil)
