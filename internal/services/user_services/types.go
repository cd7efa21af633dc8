package user_services

import (
	"errors"
	"fmt"
	"time"
)

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooLong    = errors.New("username must be at most 150 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidTheme       = errors.New("unknown theme")
	ErrUserNotFound       = errors.New("user not found")
)

// LoginBlockedError is returned while a client serves a lockout.
type LoginBlockedError struct {
	RetryAfter time.Duration
}

func (e *LoginBlockedError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d seconds", int(e.RetryAfter.Seconds()+0.5))
}

// maskUsername keeps logs free of full usernames.
func maskUsername(username string) string {
	return username[:min(4, len(username))] + "****"
}
