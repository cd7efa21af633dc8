// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"

	"github.com/moddin/kichat/internal/dtos"
	"github.com/moddin/kichat/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	renderer    dtos.HTMLRenderer
	logger      Logger
}

func NewChatHandler(cs *services.ChatService, renderer dtos.HTMLRenderer, logger Logger) *ChatHandler {
	return &ChatHandler{
		chatService: cs,
		renderer:    renderer,
		logger:      logger,
	}
}

// GetUserChats lists the caller's chats, newest first.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	chats, err := h.chatService.GetUserChats(r.Context(), userID)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": dtos.ToChatResponses(chats)})
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	c, err := h.chatService.CreateChat(r.Context(), userID)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.ToChatResponse(c))
}

// ClearChats deletes every chat of the caller.
func (h *ChatHandler) ClearChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.chatService.ClearChats(r.Context(), userID)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "all chats deleted", "deleted": n})
}

func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.RenameChatRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.chatService.RenameChat(r.Context(), userID, chatID, req.Title)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToChatResponse(c))
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "chat deleted"})
}

// GetChatMessages returns the transcript of one chat, oldest first.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.chatService.GetChatMessages(r.Context(), userID, chatID)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": dtos.ToMessageResponses(messages, h.renderer)})
}

// PostMessage stores the user's message, asks the model and returns both messages.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.PostMessageRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.chatService.PostMessage(r.Context(), userID, chatID, req.Content)
	if err != nil {
		writeChatError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.PostMessageResponseDTO{
		UserMessage: dtos.ToMessageResponse(result.UserMessage, h.renderer),
		BotMessage:  dtos.ToMessageResponse(result.AssistantMessage, h.renderer),
		Reasoning:   result.Reasoning,
		Model:       result.Model,
		DurationMs:  result.Duration.Milliseconds(),
	})
}
