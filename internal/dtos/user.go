// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/moddin/kichat/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
type UserResponseDTO struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Theme     string  `json:"theme"`
	Avatar    *string `json:"avatar,omitempty"`
	IsAdmin   bool    `json:"is_admin"`
	CreatedAt string  `json:"created_at"`
}

type RegisterRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type LoginResponseDTO struct {
	User      UserResponseDTO `json:"user"`
	ExpiresAt string          `json:"expires_at"`
}

type ThemeDTO struct {
	Theme string `json:"theme"`
}

type SetAdminRequestDTO struct {
	IsAdmin bool `json:"is_admin"`
}

type LoginHistoryDTO struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	LoginTime string `json:"login_time"`
}

func ToUserResponse(u *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        u.ID,
		Username:  u.Username,
		Theme:     string(u.Theme),
		Avatar:    u.Avatar,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func ToUserResponses(users []domain.User) []UserResponseDTO {
	out := make([]UserResponseDTO, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

func ToLoginHistory(entries []domain.LoginHistory) []LoginHistoryDTO {
	out := make([]LoginHistoryDTO, len(entries))
	for i, e := range entries {
		out[i] = LoginHistoryDTO{
			ID:        e.ID,
			UserID:    e.UserID,
			Username:  e.Username,
			LoginTime: e.LoginTime.Format(time.RFC3339),
		}
	}
	return out
}
