package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moddin/kichat/internal/auth"
	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/ratelimit"
	"github.com/moddin/kichat/internal/render"
	chatrepo "github.com/moddin/kichat/internal/repository/chat"
	messagerepo "github.com/moddin/kichat/internal/repository/message"
	"github.com/moddin/kichat/internal/repository/user"
	"github.com/moddin/kichat/internal/services"
	"github.com/moddin/kichat/internal/services/admin_services"
	"github.com/moddin/kichat/internal/services/ai"
	"github.com/moddin/kichat/internal/services/chat"
	"github.com/moddin/kichat/internal/services/user_services"
)

const testSecret = "handler-test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// fakeGateway answers with reply or fails with err.
type fakeGateway struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []ai.Request
}

func (g *fakeGateway) Complete(_ context.Context, req ai.Request) (*ai.Reply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Reply{Content: g.reply, Model: req.Model, Duration: 5 * time.Millisecond}, nil
}

type testApp struct {
	router  *mux.Router
	db      *gorm.DB
	users   user.UserRepository
	gateway *fakeGateway
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &domain.LoginHistory{}))

	userRepo := user.NewGormUserRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	loginLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.LoginConfig())
	t.Cleanup(loginLimiter.Close)

	lockout := user_services.NewLockoutService(loginLimiter, nopLogger{})
	authService := user_services.NewAuthService(userRepo, lockout, testSecret, "moddin123", nopLogger{})
	userService := user_services.NewUserService(authService, lockout, user_services.NewProfileService(userRepo, nopLogger{}))

	gateway := &fakeGateway{reply: "**Hallo** zurück"}
	chatService, err := services.NewChatService(chatRepo, messageRepo, gateway, chat.DefaultConfig(), nopLogger{})
	require.NoError(t, err)

	adminService := admin_services.NewAdminService(userRepo, chatRepo, messageRepo, nopLogger{})
	md := render.NewMarkdown()

	router := NewRouter(RouterDeps{
		Auth:    NewAuthHandler(userService, false, nopLogger{}),
		Chat:    NewChatHandler(chatService, md, nopLogger{}),
		Profile: NewProfileHandler(userService, nopLogger{}),
		Admin:   NewAdminHandler(adminService, md, nopLogger{}),
		Tokens:  authService,
		Users:   userRepo,
		Logger:  nopLogger{},
	})

	return &testApp{router: router, db: db, users: userRepo, gateway: gateway}
}

// newUser stores a user directly and returns a valid auth cookie for it.
func (a *testApp) newUser(t *testing.T, username string, isAdmin bool) (*domain.User, *http.Cookie) {
	t.Helper()
	u := &domain.User{Username: username, IsAdmin: isAdmin, Theme: domain.DefaultTheme}
	require.NoError(t, u.HashPassword("geheim1"))
	u, err := a.users.Create(context.Background(), u)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(u.ID, u.Username, u.IsAdmin, time.Hour, []byte(testSecret))
	require.NoError(t, err)
	return u, &http.Cookie{Name: auth.CookieName, Value: token}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
