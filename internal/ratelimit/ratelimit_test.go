package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, cfg *Config) (*MemoryRateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewMemoryRateLimiter(cfg)
	rl.now = clock.now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestRecordFailure_BlocksAfterThreeFailures(t *testing.T) {
	rl, clock := newTestLimiter(t, LoginConfig())

	info := rl.RecordFailure("1.2.3.4")
	assert.True(t, info.Allowed)
	assert.Equal(t, 2, info.Remaining)

	info = rl.RecordFailure("1.2.3.4")
	assert.True(t, info.Allowed)
	assert.Equal(t, 1, info.Remaining)

	info = rl.RecordFailure("1.2.3.4")
	assert.False(t, info.Allowed)
	assert.True(t, info.Banned)
	assert.Equal(t, 60*time.Second, info.RetryAfter)

	allowed, info := rl.Check("1.2.3.4")
	assert.False(t, allowed)
	assert.True(t, info.Banned)

	// Another client is unaffected.
	allowed, _ = rl.Check("5.6.7.8")
	assert.True(t, allowed)

	clock.advance(30 * time.Second)
	allowed, info = rl.Check("1.2.3.4")
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, info.RetryAfter)

	clock.advance(30 * time.Second)
	allowed, info = rl.Check("1.2.3.4")
	require.True(t, allowed)
	assert.Equal(t, 3, info.Remaining)
}

func TestRecordSuccess_ResetsFailures(t *testing.T) {
	rl, _ := newTestLimiter(t, LoginConfig())

	rl.RecordFailure("ip")
	rl.RecordFailure("ip")
	rl.RecordSuccess("ip")

	info := rl.RecordFailure("ip")
	assert.True(t, info.Allowed)
	assert.Equal(t, 2, info.Remaining)
}

func TestCheck_DoesNotCount(t *testing.T) {
	rl, _ := newTestLimiter(t, LoginConfig())
	for i := 0; i < 10; i++ {
		allowed, _ := rl.Check("ip")
		assert.True(t, allowed)
	}
}

func TestAllow_WindowBudget(t *testing.T) {
	cfg := &Config{WindowSize: time.Minute, MaxAttempts: 2, CleanupPeriod: time.Hour, BanDuration: 10 * time.Second}
	rl, clock := newTestLimiter(t, cfg)

	ok, _ := rl.Allow("ip")
	assert.True(t, ok)
	ok, _ = rl.Allow("ip")
	assert.True(t, ok)
	ok, info := rl.Allow("ip")
	assert.False(t, ok)
	assert.True(t, info.Banned)

	clock.advance(11 * time.Second)
	ok, _ = rl.Allow("ip")
	assert.True(t, ok)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "127.0.0.1:1234", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "127.0.0.1:1234", "10.0.0.9"},
		{"remote addr", nil, "192.168.1.5:5555", "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}
