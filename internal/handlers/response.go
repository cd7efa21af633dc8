// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/moddin/kichat/internal/middleware"
	"github.com/moddin/kichat/internal/services/chat"
)

// Logger is the logging interface handlers write to.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps a chat error kind to its HTTP status.
func statusFor(kind chat.ErrorType) int {
	switch kind {
	case chat.ErrTypeUnauthorized:
		return http.StatusUnauthorized
	case chat.ErrTypeNotFound:
		return http.StatusNotFound
	case chat.ErrTypeValidation, chat.ErrTypeQuota:
		return http.StatusBadRequest
	case chat.ErrTypeInference:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeChatError writes a chat service error as {"error": message}.
func writeChatError(w http.ResponseWriter, logger Logger, err error) {
	var ce *chat.ChatError
	if !errors.As(err, &ce) || ce.Type == chat.ErrTypeStorage {
		logger.Error("chat request failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if ce.Type == chat.ErrTypeInference {
		logger.Warn("inference failed", "chat_id", ce.ChatID, "user_id", ce.UserID, "error", ce.Cause)
	}
	writeError(w, ce.Message, statusFor(ce.Type))
}

// currentUser returns the authenticated user or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses a numeric path variable or writes 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		writeError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

const maxBodyBytes = 1 << 20
