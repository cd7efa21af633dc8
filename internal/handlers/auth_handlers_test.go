package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moddin/kichat/internal/auth"
	"github.com/moddin/kichat/internal/dtos"
)

func authCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.CookieName)
	return nil
}

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		username string
		password string
		status   int
	}{
		{"ok", "  Anna ", "geheim1", http.StatusCreated},
		{"duplicate after normalizing", "ANNA", "geheim1", http.StatusConflict},
		{"missing username", "   ", "geheim1", http.StatusBadRequest},
		{"short password", "ben", "12345", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/register", dtos.RegisterRequestDTO{Username: tt.username, Password: tt.password}, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestLogin_SetsCookieAndAuthenticates(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/register", dtos.RegisterRequestDTO{Username: "anna", Password: "geheim1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "Anna", Password: "geheim1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookie := authCookie(t, rec.Result())
	assert.True(t, cookie.HttpOnly)
	assert.Zero(t, cookie.MaxAge, "session cookie without remember")

	var body dtos.LoginResponseDTO
	decodeBody(t, rec, &body)
	assert.Equal(t, "anna", body.User.Username)

	rec = app.do(t, http.MethodGet, "/api/user/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var me dtos.UserResponseDTO
	decodeBody(t, rec, &me)
	assert.Equal(t, "anna", me.Username)
	assert.Equal(t, "pink", me.Theme)
}

func TestLogin_RememberSetsPersistentCookie(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/register", dtos.RegisterRequestDTO{Username: "anna", Password: "geheim1"}, nil)

	rec := app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "anna", Password: "geheim1", Remember: true}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := authCookie(t, rec.Result())
	assert.Equal(t, int(auth.RememberTTL.Seconds()), cookie.MaxAge)
}

func TestLogin_LockoutAfterThreeFailures(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/register", dtos.RegisterRequestDTO{Username: "anna", Password: "geheim1"}, nil)

	rec := app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "anna", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "anna", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "anna", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Correct credentials stay blocked until the ban expires.
	rec = app.do(t, http.MethodPost, "/login", dtos.LoginRequestDTO{Username: "anna", Password: "geheim1"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := authCookie(t, rec.Result())
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestTheme(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/user/theme", dtos.ThemeDTO{Theme: "Dark"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/user/theme", nil, cookie)
	var theme dtos.ThemeDTO
	decodeBody(t, rec, &theme)
	assert.Equal(t, "dark", theme.Theme)

	rec = app.do(t, http.MethodPost, "/api/user/theme", dtos.ThemeDTO{Theme: "neon"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = app.do(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFrontendLog(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/log", FrontendLogPayload{Level: "error", Message: "render failed"}, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/log", FrontendLogPayload{Level: "info", Message: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
