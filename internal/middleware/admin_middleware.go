// File: internal/middleware/admin_middleware.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/moddin/kichat/internal/domain"
)

// UserFinder loads a user by ID.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// RequireAdmin checks the admin flag in the database on every request.
// It must run after the JWT middleware.
func RequireAdmin(users UserFinder, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				logger.Warn("admin route without authenticated user", "path", r.URL.Path)
				forbidden(w)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Warn("admin check failed to load user", "user_id", userID, "error", err)
				forbidden(w)
				return
			}

			if !user.IsAdmin {
				logger.Warn("non-admin user attempted admin route", "user_id", user.ID, "path", r.URL.Path)
				forbidden(w)
				return
			}

			logger.Debug("admin access granted", "user_id", user.ID, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
}
