// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Theme is the display preference of a user.
type Theme string

const (
	ThemePink Theme = "pink"
	ThemeBlue Theme = "blue"
	ThemeDark Theme = "dark"

	DefaultTheme = ThemePink

	MinPasswordLength = 6
)

// ParseTheme normalizes s and reports whether it names a known theme.
func ParseTheme(s string) (Theme, bool) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemePink, ThemeBlue, ThemeDark:
		return t, true
	default:
		return "", false
	}
}

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Theme     Theme     `json:"theme" gorm:"size:20;not null;default:pink"`
	Avatar    *string   `json:"avatar,omitempty" gorm:"size:255"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeUsername trims and lower-cases a username the way it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the user's hashed password.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsValid() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if len(u.Username) > 150 {
		return errors.New("username must be at most 150 characters")
	}
	if _, ok := ParseTheme(string(u.Theme)); !ok {
		return errors.New("unknown theme")
	}
	return nil
}

// LoginHistory records one successful login.
type LoginHistory struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Username  string    `json:"username" gorm:"size:150;not null"`
	LoginTime time.Time `json:"login_time" gorm:"not null;index"`
}
