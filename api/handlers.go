package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/internal/ctxkeys"
	"github.com/dhruvladia/career-coach-ai/persistence"
	"github.com/dhruvladia/career-coach-ai/scraper"
	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const welcomeWithProfile = `Welcome to your AI Career Coach, %s!

I've analyzed your LinkedIn profile and I'm ready to help you with:

- **Job Fit Analysis** - Paste any job description for detailed compatibility analysis
- **Career Path Guidance** - Get personalized advice for your career goals
- **Profile Enhancement** - Improve your LinkedIn content for better visibility
- **Skills Development** - Identify key areas for growth

**Your Profile Summary:**
- **Role:** %s
- **Skills:** %d skills identified
- **Experience:** %d positions

**To get started, try asking:**
- "Analyze this job description for me..." (paste the JD)
- "How can I improve my LinkedIn headline?"
- "What career path should I pursue?"
- "I also know [skill name]" (to update your profile)

What would you like to work on today?`

const welcomeWithoutProfile = `Welcome to your AI Career Coach!

I wasn't able to automatically scrape your LinkedIn profile, but that's okay! I can still help you with:

- **Career guidance and planning**
- **Job fit analysis (just paste job descriptions)**
- **LinkedIn profile content improvement**
- **Skills development recommendations**

You can also manually share your background information with me, and I'll update your profile as we chat.

**To get started, try asking:**
- "Help me analyze this job description..." (paste the JD)
- "I'm a software engineer with 3 years experience, what should I focus on?"
- "How can I transition from X to Y role?"

What would you like to work on today?`

// Handler serves the coach HTTP API.
type Handler struct {
	engine   *workflow.Engine
	scraper  scraper.Scraper
	profiles persistence.ProfileStore
	history  persistence.HistoryStore
	version  string
	logger   *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	engine *workflow.Engine,
	profileScraper scraper.Scraper,
	profiles persistence.ProfileStore,
	history persistence.HistoryStore,
	version string,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:   engine,
		scraper:  profileScraper,
		profiles: profiles,
		history:  history,
		version:  version,
		logger:   logger.With(zap.String("component", "api")),
	}
}

// logFor returns the handler logger tagged with the request ID.
func (h *Handler) logFor(r *http.Request) *zap.Logger {
	if requestID, ok := ctxkeys.RequestID(r.Context()); ok {
		return h.logger.With(zap.String("request_id", requestID))
	}
	return h.logger
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Message: "AI Career Coach API",
		Version: h.version,
		Status:  "running",
	})
}

// StartSession scrapes the LinkedIn profile and creates a new session. A
// failed scrape still creates the session; the profile starts empty and can
// be built up in conversation.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decodeJSONBody(w, r, &req, h.logFor(r)) {
		return
	}

	profileURL := strings.TrimSpace(req.LinkedInURL)
	if profileURL == "" || !strings.Contains(profileURL, "linkedin.com") {
		writeError(w, types.NewError(types.ErrInvalidRequest, "please provide a valid LinkedIn profile URL"), h.logFor(r))
		return
	}

	sessionID := uuid.New().String()

	profile, err := h.scraper.ScrapeProfile(r.Context(), profileURL)
	if err != nil {
		h.logFor(r).Warn("scrape failed, starting session without profile",
			zap.String("session_id", sessionID),
			zap.Error(err))
		profile = nil
	}

	scraped := profile != nil
	if profile == nil {
		now := time.Now().UTC()
		profile = &types.UserProfile{CreatedAt: now, UpdatedAt: now}
	}
	profile.SessionID = sessionID
	profile.ProfileURL = profileURL

	if err := h.profiles.Create(r.Context(), profile); err != nil {
		writeError(w, err, h.logFor(r))
		return
	}

	resp := SessionResponse{SessionID: sessionID}
	if scraped {
		name := profile.Name
		if name == "" {
			name = "there"
		}
		headline := profile.Headline
		if headline == "" {
			headline = "Not specified"
		}
		resp.Message = fmt.Sprintf(welcomeWithProfile, name, headline, len(profile.Skills), len(profile.Experience))
		resp.ProfileData = profile
	} else {
		resp.Message = welcomeWithoutProfile
	}

	h.logFor(r).Info("session started",
		zap.String("session_id", sessionID),
		zap.Bool("profile_scraped", scraped))
	writeSuccess(w, resp)
}

// Chat runs one workflow turn for the session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSONBody(w, r, &req, h.logFor(r)) {
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	message := strings.TrimSpace(req.Message)
	if sessionID == "" || message == "" {
		writeError(w, types.NewError(types.ErrInvalidRequest, "session_id and message are required"), h.logFor(r))
		return
	}

	profile, err := h.profiles.Get(r.Context(), sessionID)
	if err != nil {
		if types.IsCode(err, types.ErrNotFound) {
			writeError(w, types.NewError(types.ErrNotFound, "session not found, please start a new session"), h.logFor(r))
			return
		}
		writeError(w, err, h.logFor(r))
		return
	}

	result, err := h.engine.StartTurn(r.Context(), sessionID, message, profile)
	if err != nil {
		writeError(w, err, h.logFor(r))
		return
	}

	h.archiveTurn(r, sessionID, message, result)
	writeSuccess(w, chatResponseFrom(result))
}

// Resume answers a suspended workflow's prompt and continues the turn.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if !decodeJSONBody(w, r, &req, h.logFor(r)) {
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	input := strings.TrimSpace(req.Input)
	if sessionID == "" || input == "" {
		writeError(w, types.NewError(types.ErrInvalidRequest, "session_id and input are required"), h.logFor(r))
		return
	}

	result, err := h.engine.Resume(r.Context(), sessionID, input)
	if err != nil {
		writeError(w, err, h.logFor(r))
		return
	}

	h.archiveTurn(r, sessionID, input, result)
	writeSuccess(w, chatResponseFrom(result))
}

// GetProfile returns the stored profile for a session.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeError(w, err, h.logFor(r))
		return
	}
	writeSuccess(w, profile)
}

// GetChatHistory returns archived conversation entries, oldest first.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, types.NewError(types.ErrInvalidRequest, "limit must be a non-negative integer"), h.logFor(r))
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(r.Context(), sessionID, limit)
	if err != nil {
		writeError(w, err, h.logFor(r))
		return
	}
	if entries == nil {
		entries = []types.ChatEntry{}
	}
	writeSuccess(w, ChatHistoryResponse{SessionID: sessionID, ChatHistory: entries})
}

// archiveTurn records the exchange in the history archive. Archive failures
// are logged, not surfaced; the turn already happened.
func (h *Handler) archiveTurn(r *http.Request, sessionID, userMessage string, result *workflow.TurnResult) {
	entries := []types.ChatEntry{
		{Role: types.RoleUser, Content: userMessage},
		{Role: types.RoleAssistant, Content: result.Message, Stage: result.AgentType},
	}
	if err := h.history.Append(r.Context(), sessionID, entries); err != nil {
		h.logFor(r).Warn("failed to archive turn",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}
