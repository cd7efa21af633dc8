package handlers

import (
	"net/http"
	"strings"

	"github.com/moddin/kichat/internal/middleware"
)

// FrontendLogPayload defines the structure for logs coming from the browser.
type FrontendLogPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Context any    `json:"context,omitempty"`
}

const maxClientLogMessage = 2000

// NewFrontendLogHandler forwards browser log events into the server log.
func NewFrontendLogHandler(logger Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload FrontendLogPayload
		if err := decodeJSON(w, r, &payload); err != nil {
			writeError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		msg := payload.Message
		if len(msg) > maxClientLogMessage {
			msg = msg[:maxClientLogMessage]
		}
		userID, _ := middleware.UserIDFromContext(r.Context())
		kv := []interface{}{"message", msg, "context", payload.Context, "user_id", userID}

		switch strings.ToLower(payload.Level) {
		case "error":
			logger.Error("client log", kv...)
		case "warn", "warning":
			logger.Warn("client log", kv...)
		case "debug":
			logger.Debug("client log", kv...)
		default:
			logger.Info("client log", kv...)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
