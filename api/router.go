package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhruvladia/career-coach-ai/internal/ctxkeys"
)

// NewMux builds the HTTP routing table.
func NewMux(h *Handler, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Health)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /start_session", h.StartSession)
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("POST /chat/resume", h.Resume)
	mux.HandleFunc("GET /profile/{session_id}", h.GetProfile)
	mux.HandleFunc("GET /chat_history/{session_id}", h.GetChatHistory)

	return requestIDMiddleware(corsMiddleware(mux, allowedOrigin))
}

// requestIDMiddleware tags every request with an ID, honoring an incoming
// X-Request-ID header, and echoes it back in the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), requestID)))
	})
}

// corsMiddleware sets CORS headers when an allowed origin is configured.
func corsMiddleware(next http.Handler, allowedOrigin string) http.Handler {
	if allowedOrigin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
