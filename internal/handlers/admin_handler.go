// File: internal/handlers/admin_handler.go
package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/moddin/kichat/internal/dtos"
	"github.com/moddin/kichat/internal/services/admin_services"
)

type AdminHandler struct {
	adminService *admin_services.AdminService
	renderer     dtos.HTMLRenderer
	logger       Logger
}

func NewAdminHandler(adminService *admin_services.AdminService, renderer dtos.HTMLRenderer, logger Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		renderer:     renderer,
		logger:       logger,
	}
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// GetAllUsersHandler lists users with pagination and search.
func (h *AdminHandler) GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	search := r.URL.Query().Get("search")

	result, err := h.adminService.ListUsers(r.Context(), page, limit, search)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": dtos.ToUserResponses(result.Users),
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

func (h *AdminHandler) SetAdminHandler(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.SetAdminRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.adminService.SetAdmin(r.Context(), actingUserID, targetID, req.IsAdmin); err != nil {
		h.writeAdminError(w, err, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": targetID, "is_admin": req.IsAdmin})
}

// ListChatsHandler lists all chats, or the chats of one user with ?user_id=.
func (h *AdminHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	var userID uint
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		userID = uint(id)
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)

	chats, total, err := h.adminService.ListChats(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("failed to list chats", "error", err, "user_id", userID)
		writeError(w, "Failed to retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chats": dtos.ToChatResponses(chats),
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteChat(r.Context(), chatID); err != nil {
		h.writeAdminError(w, err, "Failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "chat deleted"})
}

func (h *AdminHandler) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	messages, err := h.adminService.ListChatMessages(r.Context(), chatID)
	if err != nil {
		h.writeAdminError(w, err, "Failed to retrieve messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": dtos.ToMessageResponses(messages, h.renderer)})
}

func (h *AdminHandler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteMessage(r.Context(), messageID); err != nil {
		h.writeAdminError(w, err, "Failed to delete message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}

// LoginsHandler returns login history, optionally for one user.
func (h *AdminHandler) LoginsHandler(w http.ResponseWriter, r *http.Request) {
	var userID uint
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		userID = uint(id)
	}

	entries, err := h.adminService.ListLogins(r.Context(), userID, queryInt(r, "limit", 100))
	if err != nil {
		h.logger.Error("failed to list logins", "error", err)
		writeError(w, "Failed to retrieve login history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logins": dtos.ToLoginHistory(entries)})
}

func (h *AdminHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to load stats", "error", err)
		writeError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ExportUsersCSVHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.GetAllUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to export users", "error", err)
		writeError(w, "Failed to export users", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"ID", "Username", "Theme", "IsAdmin", "CreatedAt"}
	if err := csvWriter.Write(header); err != nil {
		h.logger.Error("failed to write CSV header", "error", err)
		return
	}

	for _, user := range users {
		record := []string{
			strconv.FormatUint(uint64(user.ID), 10),
			user.Username,
			string(user.Theme),
			strconv.FormatBool(user.IsAdmin),
			user.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := csvWriter.Write(record); err != nil {
			h.logger.Error("failed to write CSV record", "error", err, "user_id", user.ID)
			return
		}
	}
	h.logger.Info("exported users to CSV", "count", len(users))
}

func (h *AdminHandler) writeAdminError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, admin_services.ErrNotFound):
		writeError(w, "not found", http.StatusNotFound)
	case errors.Is(err, admin_services.ErrCannotDemoteSelf):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, fallback, http.StatusInternalServerError)
	}
}
