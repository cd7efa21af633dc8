package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/moddin/kichat/internal/auth"
)

// TokenValidator resolves a token to a user ID.
type TokenValidator interface {
	ValidateJWTToken(tokenString string) (uint, error)
}

// NewJWTMiddleware creates middleware to validate JWT from cookie
func NewJWTMiddleware(validator TokenValidator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				logger.Debug("missing auth cookie", "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
				unauthorized(w)
				return
			}

			userID, err := validator.ValidateJWTToken(cookie.Value)
			if err != nil {
				logger.Warn("invalid auth token", "path", r.URL.Path, "error", err, "request_id", RequestIDFromContext(r.Context()))
				ClearAuthCookie(w, r)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ClearAuthCookie expires the auth cookie on the client.
func ClearAuthCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
