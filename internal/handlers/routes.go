// File: internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moddin/kichat/internal/middleware"
	"github.com/moddin/kichat/internal/ratelimit"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Auth            *AuthHandler
	Chat            *ChatHandler
	Profile         *ProfileHandler
	Admin           *AdminHandler
	Tokens          middleware.TokenValidator
	Users           middleware.UserFinder
	RegisterLimiter *ratelimit.MemoryRateLimiter
	Logger          Logger
}

// NewRouter registers every route with its middleware chain.
func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(d.Tokens, d.Logger)
	adminMiddleware := middleware.RequireAdmin(d.Users, d.Logger)

	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger))

	// --- Public Routes ---
	r.HandleFunc("/health", Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/login", d.Auth.Login).Methods("POST")
	r.HandleFunc("/logout", d.Auth.Logout).Methods("GET")

	register := http.HandlerFunc(d.Auth.Register)
	if d.RegisterLimiter != nil {
		r.Handle("/register", middleware.RateLimitMiddleware(d.RegisterLimiter, "register", d.Logger)(register)).Methods("POST")
	} else {
		r.Handle("/register", register).Methods("POST")
	}

	// --- Admin Routes ---
	// Registered before /api so the more specific prefix wins.
	adminApi := r.PathPrefix("/api/admin").Subrouter()
	adminApi.Use(authMiddleware)
	adminApi.Use(adminMiddleware)
	adminApi.HandleFunc("/users", d.Admin.GetAllUsersHandler).Methods("GET")
	adminApi.HandleFunc("/users/export", d.Admin.ExportUsersCSVHandler).Methods("GET")
	adminApi.HandleFunc("/users/{id:[0-9]+}/admin", d.Admin.SetAdminHandler).Methods("POST")
	adminApi.HandleFunc("/chats", d.Admin.ListChatsHandler).Methods("GET")
	adminApi.HandleFunc("/chats/{id:[0-9]+}", d.Admin.DeleteChatHandler).Methods("DELETE")
	adminApi.HandleFunc("/chats/{id:[0-9]+}/messages", d.Admin.ChatMessagesHandler).Methods("GET")
	adminApi.HandleFunc("/messages/{id:[0-9]+}", d.Admin.DeleteMessageHandler).Methods("DELETE")
	adminApi.HandleFunc("/logins", d.Admin.LoginsHandler).Methods("GET")
	adminApi.HandleFunc("/stats", d.Admin.StatsHandler).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/log", NewFrontendLogHandler(d.Logger)).Methods("POST")
	api.HandleFunc("/chats", d.Chat.GetUserChats).Methods("GET")
	api.HandleFunc("/chats", d.Chat.CreateChat).Methods("POST")
	api.HandleFunc("/chats", d.Chat.ClearChats).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chat.RenameChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chat.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Chat.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Chat.PostMessage).Methods("POST")
	api.HandleFunc("/user/theme", d.Profile.GetTheme).Methods("GET")
	api.HandleFunc("/user/theme", d.Profile.SetTheme).Methods("POST")
	api.HandleFunc("/user/me", d.Profile.Me).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}
