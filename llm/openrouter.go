package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dhruvladia/career-coach-ai/types"
)

// OpenRouterConfig configures the OpenRouter provider.
type OpenRouterConfig struct {
	// APIKey is the OpenRouter API key.
	APIKey string `yaml:"api_key" json:"api_key"`
	// BaseURL is the API base URL.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Model is the default model when the request does not set one.
	Model string `yaml:"model" json:"model"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// RequestsPerSecond caps outbound request rate. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

// DefaultOpenRouterConfig returns the default provider configuration.
func DefaultOpenRouterConfig() OpenRouterConfig {
	return OpenRouterConfig{
		BaseURL:           "https://openrouter.ai/api/v1",
		Model:             "openai/gpt-4o-mini",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
	}
}

// OpenRouterProvider implements Provider against the OpenRouter
// OpenAI-compatible API.
type OpenRouterProvider struct {
	cfg     OpenRouterConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewOpenRouterProvider creates a new OpenRouter provider.
func NewOpenRouterProvider(cfg OpenRouterConfig, logger *zap.Logger) *OpenRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OpenRouterProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger.With(zap.String("component", "openrouter_provider")),
	}
}

func (p *OpenRouterProvider) Name() string { return "openrouter" }

// OpenAI-compatible wire types.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float32         `json:"temperature,omitempty"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	FinishReason string        `json:"finish_reason"`
	Message      openAIMessage `json:"message"`
}

type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   *openAIUsage   `json:"usage,omitempty"`
	Created int64          `json:"created,omitempty"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openAIErrorResp struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Completion performs a chat completion call.
func (p *OpenRouterProvider) Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "completion request has no messages")
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, types.NewError(types.ErrRateLimited, "rate limiter wait aborted").WithCause(err)
		}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}

	body := openAIRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, openAIMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRequest, "failed to encode request").WithCause(err)
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrInternal, "failed to build request").WithCause(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, types.NewError(types.ErrUpstreamTimeout, "completion call timed out").WithCause(err).WithRetryable(true)
		}
		return nil, types.NewError(types.ErrUpstreamError, "completion call failed").WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.mapHTTPError(resp)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "failed to decode response").WithCause(err)
	}
	if len(out.Choices) == 0 {
		return nil, types.NewError(types.ErrUpstreamError, "empty response from provider")
	}

	p.logger.Debug("completion finished",
		zap.String("model", out.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", usageTotal(out.Usage)),
	)

	result := &ChatResponse{
		ID:        out.ID,
		Model:     out.Model,
		Content:   out.Choices[0].Message.Content,
		CreatedAt: time.Unix(out.Created, 0),
	}
	if out.Usage != nil {
		result.Usage = ChatUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	return result, nil
}

func (p *OpenRouterProvider) mapHTTPError(resp *http.Response) error {
	msg := readErrMsg(resp.Body)

	var code types.ErrorCode
	retryable := false
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		code, retryable = types.ErrRateLimited, true
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		code, retryable = types.ErrUpstreamTimeout, true
	case resp.StatusCode >= 500:
		code, retryable = types.ErrUpstreamError, true
	default:
		code = types.ErrInvalidRequest
	}

	return types.NewError(code, fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, msg)).
		WithHTTPStatus(resp.StatusCode).
		WithRetryable(retryable)
}

func usageTotal(u *openAIUsage) int {
	if u == nil {
		return 0
	}
	return u.TotalTokens
}

func readErrMsg(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var errResp openAIErrorResp
	if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(string(data))
}
