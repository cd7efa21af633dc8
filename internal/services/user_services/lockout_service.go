package user_services

import (
	"github.com/moddin/kichat/internal/ratelimit"
)

// LockoutService tracks failed logins per client and blocks brute force attempts.
type LockoutService struct {
	limiter *ratelimit.MemoryRateLimiter
	logger  Logger
}

func NewLockoutService(limiter *ratelimit.MemoryRateLimiter, logger Logger) *LockoutService {
	return &LockoutService{limiter: limiter, logger: logger}
}

// CheckBlocked returns a *LoginBlockedError while the client is locked out.
func (s *LockoutService) CheckBlocked(clientKey string) error {
	allowed, info := s.limiter.Check(clientKey)
	if allowed {
		return nil
	}
	s.logger.Warn("login rejected, client blocked",
		"client", clientKey,
		"retry_after", info.RetryAfter.String())
	return &LoginBlockedError{RetryAfter: info.RetryAfter}
}

// RecordFailedAttempt counts a failure and returns how many attempts remain.
func (s *LockoutService) RecordFailedAttempt(clientKey string) (remaining int, blocked error) {
	info := s.limiter.RecordFailure(clientKey)
	if info.Banned {
		s.logger.Warn("client blocked after failed logins",
			"client", clientKey,
			"block_duration", info.RetryAfter.String())
		return 0, &LoginBlockedError{RetryAfter: info.RetryAfter}
	}
	s.logger.Info("failed login attempt recorded", "client", clientKey, "remaining", info.Remaining)
	return info.Remaining, nil
}

func (s *LockoutService) ClearFailedAttempts(clientKey string) {
	s.limiter.RecordSuccess(clientKey)
}
