package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moddin/kichat/internal/dtos"
	"github.com/moddin/kichat/internal/services/ai"
)

type chatList struct {
	Chats []dtos.ChatResponseDTO `json:"chats"`
}

type messageList struct {
	Messages []dtos.MessageResponseDTO `json:"messages"`
}

func TestChatRoutes_RequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/chats", "/api/user/me", "/api/admin/users"} {
		rec := app.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := app.do(t, http.MethodGet, "/api/chats", nil, &http.Cookie{Name: "auth_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatLifecycle(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)
	assert.Equal(t, "New Chat 1", created.Title)

	rec = app.do(t, http.MethodPut, fmt.Sprintf("/api/chats/%d", created.ID), dtos.RenameChatRequestDTO{Title: "  Urlaub  "}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var renamed dtos.ChatResponseDTO
	decodeBody(t, rec, &renamed)
	assert.Equal(t, "Urlaub", renamed.Title)

	rec = app.do(t, http.MethodGet, "/api/chats", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var list chatList
	decodeBody(t, rec, &list)
	require.Len(t, list.Chats, 1)
	assert.Equal(t, "Urlaub", list.Chats[0].Title)

	rec = app.do(t, http.MethodDelete, fmt.Sprintf("/api/chats/%d", created.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/api/chats/%d/messages", created.ID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameChat_Validation(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/api/chats/%d", created.ID)

	tests := []struct {
		name   string
		title  string
		status int
	}{
		{"empty", "   ", http.StatusBadRequest},
		{"too long", strings.Repeat("a", 151), http.StatusBadRequest},
		{"max length", strings.Repeat("a", 150), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPut, path, dtos.RenameChatRequestDTO{Title: tt.title}, cookie)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateChat_QuotaReturns400(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	for i := 0; i < 20; i++ {
		rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat limit of 20 reached")
}

func TestChats_CrossUserIsNotFound(t *testing.T) {
	app := newTestApp(t)
	_, owner := app.newUser(t, "anna", false)
	_, other := app.newUser(t, "ben", false)

	rec := app.do(t, http.MethodPost, "/api/chats", nil, owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)

	checks := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, fmt.Sprintf("/api/chats/%d/messages", created.ID), nil},
		{http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", created.ID), dtos.PostMessageRequestDTO{Content: "hi"}},
		{http.MethodPut, fmt.Sprintf("/api/chats/%d", created.ID), dtos.RenameChatRequestDTO{Title: "mine"}},
		{http.MethodDelete, fmt.Sprintf("/api/chats/%d", created.ID), nil},
	}
	for _, c := range checks {
		rec := app.do(t, c.method, c.path, c.body, other)
		assert.Equal(t, http.StatusNotFound, rec.Code, c.method+" "+c.path)
	}

	rec = app.do(t, http.MethodGet, "/api/chats", nil, owner)
	var list chatList
	decodeBody(t, rec, &list)
	assert.Len(t, list.Chats, 1)
	assert.Empty(t, app.gateway.requests)
}

func TestPostMessage_RoundTrip(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/api/chats/%d/messages", created.ID)

	rec = app.do(t, http.MethodPost, path, dtos.PostMessageRequestDTO{Content: "Hallo"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dtos.PostMessageResponseDTO
	decodeBody(t, rec, &resp)
	assert.Equal(t, "user", resp.UserMessage.Role)
	assert.Equal(t, "Hallo", resp.UserMessage.Content)
	assert.Empty(t, resp.UserMessage.HTML)
	assert.Equal(t, "assistant", resp.BotMessage.Role)
	assert.Equal(t, "**Hallo** zurück", resp.BotMessage.Content)
	assert.Contains(t, resp.BotMessage.HTML, "<strong>Hallo</strong>")
	assert.Equal(t, "llama3.1:8b", resp.Model)

	rec = app.do(t, http.MethodGet, path, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs messageList
	decodeBody(t, rec, &msgs)
	require.Len(t, msgs.Messages, 2)
	assert.Equal(t, "user", msgs.Messages[0].Role)
	assert.Equal(t, "assistant", msgs.Messages[1].Role)
}

func TestPostMessage_InferenceFailure(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)
	app.gateway.err = &ai.InferenceError{Kind: ai.CauseTimeout, Model: "llama3.1:8b", Cause: context.DeadlineExceeded}

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/api/chats/%d/messages", created.ID)

	rec = app.do(t, http.MethodPost, path, dtos.PostMessageRequestDTO{Content: "Hallo"}, cookie)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = app.do(t, http.MethodGet, path, nil, cookie)
	var msgs messageList
	decodeBody(t, rec, &msgs)
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, "user", msgs.Messages[0].Role)
}

func TestPostMessage_BadInput(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	rec := app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	var created dtos.ChatResponseDTO
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/api/chats/%d/messages", created.ID)

	rec = app.do(t, http.MethodPost, path, dtos.PostMessageRequestDTO{Content: "   "}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, path, "not an object", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, app.gateway.requests)
}

func TestClearChats(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.newUser(t, "anna", false)

	for i := 0; i < 3; i++ {
		app.do(t, http.MethodPost, "/api/chats", nil, cookie)
	}

	rec := app.do(t, http.MethodDelete, "/api/chats", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Deleted int64 `json:"deleted"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, int64(3), body.Deleted)

	rec = app.do(t, http.MethodGet, "/api/chats", nil, cookie)
	var list chatList
	decodeBody(t, rec, &list)
	assert.Empty(t, list.Chats)
}
