package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/types"
)

// Response is the uniform API envelope.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorInfo is the wire shape of an error.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeSuccess writes a 200 envelope.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// writeError maps an error onto the envelope. Coded errors carry their own
// status hint; everything else is an internal error.
func writeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var coded *types.Error
	if !errors.As(err, &coded) {
		coded = types.NewError(types.ErrInternal, "an unexpected error occurred").WithCause(err)
	}

	status := coded.HTTPStatus
	if status == 0 {
		status = statusForCode(coded.Code)
	}

	if logger != nil {
		logger.Error("API error",
			zap.String("code", string(coded.Code)),
			zap.String("message", coded.Message),
			zap.Int("status", status),
			zap.Error(coded.Cause))
	}

	writeJSON(w, status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      string(coded.Code),
			Message:   coded.Message,
			Retryable: coded.Retryable,
		},
		Timestamp: time.Now().UTC(),
	})
}

func statusForCode(code types.ErrorCode) int {
	switch code {
	case types.ErrInvalidRequest:
		return http.StatusBadRequest
	case types.ErrNotFound:
		return http.StatusNotFound
	case types.ErrInvalidState:
		return http.StatusConflict
	case types.ErrRateLimited:
		return http.StatusTooManyRequests
	case types.ErrUpstreamTimeout:
		return http.StatusGatewayTimeout
	case types.ErrUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSONBody strictly decodes the request body into dst and writes the
// error response itself on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, types.NewError(types.ErrInvalidRequest, "invalid JSON body").WithCause(err), logger)
		return false
	}
	return true
}
