// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
	BanDuration   time.Duration // How long to ban after exceeding limit
}

// LoginConfig blocks a client for a minute after three failed logins.
func LoginConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: 5 * time.Minute,
		BanDuration:   60 * time.Second,
	}
}

// RegisterConfig limits account creation per client.
func RegisterConfig() *Config {
	return &Config{
		WindowSize:    time.Hour,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   time.Hour,
	}
}

// attemptRecord tracks attempts for an IP/identifier
type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
	BannedAt  *time.Time
}

// MemoryRateLimiter implements in-memory rate limiting
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
	once     sync.Once
	now      func() time.Time
}

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}

	go limiter.cleanupLoop()

	return limiter
}

// Allow counts every call as an attempt and rejects once the window budget is spent.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if info := rl.bannedInfo(identifier, now); info != nil {
		return false, info
	}

	record := rl.touch(identifier, now)
	if record.Count > rl.config.MaxAttempts {
		return false, rl.ban(record, now)
	}
	return true, rl.allowedInfo(record)
}

// Check reports whether identifier is currently blocked without counting an attempt.
func (rl *MemoryRateLimiter) Check(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if info := rl.bannedInfo(identifier, now); info != nil {
		return false, info
	}
	record, ok := rl.attempts[identifier]
	if !ok || now.Sub(record.FirstSeen) > rl.config.WindowSize {
		return true, &RateLimitInfo{Allowed: true, Remaining: rl.config.MaxAttempts, ResetTime: now.Add(rl.config.WindowSize)}
	}
	return true, rl.allowedInfo(record)
}

// RecordFailure counts a failed attempt and bans the identifier when it reaches MaxAttempts.
func (rl *MemoryRateLimiter) RecordFailure(identifier string) *RateLimitInfo {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if info := rl.bannedInfo(identifier, now); info != nil {
		return info
	}

	record := rl.touch(identifier, now)
	if record.Count >= rl.config.MaxAttempts {
		return rl.ban(record, now)
	}
	return rl.allowedInfo(record)
}

// RecordSuccess records a successful authentication (resets attempts)
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, identifier)
}

// RateLimitInfo contains information about rate limit status
type RateLimitInfo struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

func (rl *MemoryRateLimiter) bannedInfo(identifier string, now time.Time) *RateLimitInfo {
	record, ok := rl.attempts[identifier]
	if !ok || record.BannedAt == nil {
		return nil
	}
	elapsed := now.Sub(*record.BannedAt)
	if elapsed >= rl.config.BanDuration {
		// Ban served: start over with a clean slate.
		delete(rl.attempts, identifier)
		return nil
	}
	return &RateLimitInfo{
		Allowed:    false,
		ResetTime:  record.BannedAt.Add(rl.config.BanDuration),
		RetryAfter: rl.config.BanDuration - elapsed,
		Banned:     true,
	}
}

func (rl *MemoryRateLimiter) touch(identifier string, now time.Time) *attemptRecord {
	record, ok := rl.attempts[identifier]
	if !ok || now.Sub(record.FirstSeen) > rl.config.WindowSize {
		record = &attemptRecord{FirstSeen: now}
		rl.attempts[identifier] = record
	}
	record.Count++
	record.LastSeen = now
	return record
}

func (rl *MemoryRateLimiter) ban(record *attemptRecord, now time.Time) *RateLimitInfo {
	banTime := now
	record.BannedAt = &banTime
	return &RateLimitInfo{
		Allowed:    false,
		ResetTime:  now.Add(rl.config.BanDuration),
		RetryAfter: rl.config.BanDuration,
		Banned:     true,
	}
}

func (rl *MemoryRateLimiter) allowedInfo(record *attemptRecord) *RateLimitInfo {
	remaining := rl.config.MaxAttempts - record.Count
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitInfo{
		Allowed:   true,
		Remaining: remaining,
		ResetTime: record.FirstSeen.Add(rl.config.WindowSize),
	}
}

// cleanupLoop periodically removes old records
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes expired records
func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, record := range rl.attempts {
		windowExpired := now.Sub(record.FirstSeen) > rl.config.WindowSize
		banExpired := record.BannedAt != nil && now.Sub(*record.BannedAt) > rl.config.BanDuration

		if (windowExpired && record.BannedAt == nil) || banExpired {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// parseFirstIP extracts the first valid IP from a comma-separated list
func parseFirstIP(forwarded string) string {
	ips := strings.Split(forwarded, ",")
	if len(ips) > 0 {
		return strings.TrimSpace(ips[0])
	}
	return ""
}
