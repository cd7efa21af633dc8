// File: internal/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"github.com/moddin/kichat/internal/dtos"
	"github.com/moddin/kichat/internal/services/user_services"
)

type ProfileHandler struct {
	userService *user_services.UserService
	logger      Logger
}

func NewProfileHandler(service *user_services.UserService, logger Logger) *ProfileHandler {
	return &ProfileHandler{userService: service, logger: logger}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	u, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeUserError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToUserResponse(u))
}

func (h *ProfileHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	theme, err := h.userService.GetTheme(r.Context(), userID)
	if err != nil {
		writeUserError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ThemeDTO{Theme: string(theme)})
}

func (h *ProfileHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dtos.ThemeDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	theme, err := h.userService.SetTheme(r.Context(), userID, req.Theme)
	if err != nil {
		writeUserError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ThemeDTO{Theme: string(theme)})
}
