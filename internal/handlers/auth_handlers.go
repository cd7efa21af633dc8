// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/moddin/kichat/internal/auth"
	"github.com/moddin/kichat/internal/dtos"
	"github.com/moddin/kichat/internal/middleware"
	"github.com/moddin/kichat/internal/ratelimit"
	"github.com/moddin/kichat/internal/services/user_services"
)

type AuthHandler struct {
	userService   *user_services.UserService
	secureCookies bool
	logger        Logger
}

// NewAuthHandler wires the auth endpoints. secureCookies marks the auth
// cookie Secure and should be on whenever the app is served over TLS.
func NewAuthHandler(service *user_services.UserService, secureCookies bool, logger Logger) *AuthHandler {
	return &AuthHandler{userService: service, secureCookies: secureCookies, logger: logger}
}

// Register creates an account from a JSON body.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeUserError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.ToUserResponse(u))
}

// Login validates credentials and sets the auth cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.userService.Login(r.Context(), user_services.LoginRequest{
		Username:  req.Username,
		Password:  req.Password,
		Remember:  req.Remember,
		ClientKey: ratelimit.GetClientIP(r),
	})
	if err != nil {
		writeUserError(w, h.logger, err)
		return
	}

	expiresAt := time.Now().Add(result.ExpiresIn)
	cookie := &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		HttpOnly: true,
		Secure:   h.secureCookies,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	// Without "remember" the cookie lives for the browser session only.
	if result.Remember {
		cookie.Expires = expiresAt
		cookie.MaxAge = int(result.ExpiresIn.Seconds())
	}
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, dtos.LoginResponseDTO{
		User:      dtos.ToUserResponse(result.User),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeUserError maps account errors to HTTP statuses.
func writeUserError(w http.ResponseWriter, logger Logger, err error) {
	var blocked *user_services.LoginBlockedError
	switch {
	case errors.As(err, &blocked):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(blocked.RetryAfter.Seconds()+0.5)))
		writeError(w, blocked.Error(), http.StatusTooManyRequests)
	case errors.Is(err, user_services.ErrInvalidCredentials):
		writeError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, user_services.ErrUsernameTaken):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, user_services.ErrUsernameRequired),
		errors.Is(err, user_services.ErrUsernameTooLong),
		errors.Is(err, user_services.ErrPasswordTooShort),
		errors.Is(err, user_services.ErrInvalidTheme):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, user_services.ErrUserNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	default:
		logger.Error("user request failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}
