// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moddin/kichat/internal/config"
	"github.com/moddin/kichat/internal/database"
	"github.com/moddin/kichat/internal/handlers"
	"github.com/moddin/kichat/internal/ratelimit"
	"github.com/moddin/kichat/internal/render"
	"github.com/moddin/kichat/internal/repository/chat"
	"github.com/moddin/kichat/internal/repository/message"
	"github.com/moddin/kichat/internal/repository/user"
	"github.com/moddin/kichat/internal/services"
	"github.com/moddin/kichat/internal/services/admin_services"
	"github.com/moddin/kichat/internal/services/ai"
	"github.com/moddin/kichat/internal/services/user_services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger, err := services.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN, logger.Zap())
	if err != nil {
		logger.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	chatRepo := chat.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	provider, err := ai.NewProvider(&cfg.AI)
	if err != nil {
		logger.Error("failed to initialize AI provider", "provider", cfg.AI.Provider, "error", err)
		os.Exit(1)
	}
	gateway := ai.NewGateway(provider, &cfg.AI, logger.Named("ai"))

	chatService, err := services.NewChatService(chatRepo, messageRepo, gateway, &cfg.Chat, logger.Named("chat"))
	if err != nil {
		logger.Error("failed to initialize chat service", "error", err)
		os.Exit(1)
	}

	loginLimiter := ratelimit.NewMemoryRateLimiter(&ratelimit.Config{
		WindowSize:    ratelimit.LoginConfig().WindowSize,
		MaxAttempts:   cfg.LoginMaxAttempts,
		CleanupPeriod: ratelimit.LoginConfig().CleanupPeriod,
		BanDuration:   cfg.LoginBlockDuration,
	})
	defer loginLimiter.Close()
	registerLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.RegisterConfig())
	defer registerLimiter.Close()

	userLogger := logger.Named("user")
	lockout := user_services.NewLockoutService(loginLimiter, userLogger)
	authService := user_services.NewAuthService(userRepo, lockout, cfg.JWTSecretKey, cfg.AdminUsername, userLogger)
	userService := user_services.NewUserService(authService, lockout, user_services.NewProfileService(userRepo, userLogger))
	adminService := admin_services.NewAdminService(userRepo, chatRepo, messageRepo, logger.Named("admin"))

	// --- Handlers ---
	httpLogger := logger.Named("http")
	markdown := render.NewMarkdown()
	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:            handlers.NewAuthHandler(userService, cfg.IsProduction(), httpLogger),
		Chat:            handlers.NewChatHandler(chatService, markdown, httpLogger),
		Profile:         handlers.NewProfileHandler(userService, httpLogger),
		Admin:           handlers.NewAdminHandler(adminService, markdown, httpLogger),
		Tokens:          authService,
		Users:           userRepo,
		RegisterLimiter: registerLimiter,
		Logger:          httpLogger,
	})

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A reply may take the whole inference timeout.
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	checkCtx, cancelCheck := context.WithTimeout(context.Background(), 5*time.Second)
	if err := gateway.HealthCheck(checkCtx); err != nil {
		logger.Warn("AI backend not reachable at startup", "provider", provider.Name(), "base_url", cfg.AI.BaseURL, "error", err)
	}
	cancelCheck()

	logger.Info("server starting",
		"addr", srv.Addr,
		"env", cfg.Environment,
		"db_driver", cfg.DBDriver,
		"ai_provider", provider.Name(),
		"default_model", cfg.Chat.DefaultModel,
		"reasoning_model", cfg.Chat.ReasoningModel)

	// --- Start Server in Goroutine ---
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped gracefully")
}
