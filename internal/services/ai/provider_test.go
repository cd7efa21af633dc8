package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1:8b","message":{"role":"assistant","content":"Servus!"},"done":true}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(&Config{Provider: ProviderOllama, BaseURL: srv.URL, Timeout: time.Second, Temperature: 0.2})
	require.NoError(t, err)

	reply, err := p.Chat(context.Background(), "llama3.1:8b", []Turn{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "Hallo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Servus!", reply)

	assert.Equal(t, "llama3.1:8b", got["model"])
	assert.Equal(t, false, got["stream"])
	msgs, ok := got["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestOllamaProvider_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(&Config{Provider: ProviderOllama, BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = p.Chat(context.Background(), "nope", []Turn{{Role: RoleUser, Content: "hi"}})
	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrTypeModel, aiErr.Type)
	assert.Equal(t, http.StatusNotFound, aiErr.Code)
}

func TestNewOllamaProvider_InvalidURL(t *testing.T) {
	_, err := NewOllamaProvider(&Config{Provider: ProviderOllama, BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestOpenAIProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(&Config{Provider: ProviderOpenAI, BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})
	reply, err := p.Chat(context.Background(), "m", []Turn{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(&Config{Provider: ProviderOllama, BaseURL: "http://localhost:11434", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Name())

	p, err = NewProvider(&Config{Provider: ProviderOpenAI, BaseURL: "http://localhost:8000/v1", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Name())

	_, err = NewProvider(&Config{Provider: "bogus", Timeout: time.Second})
	assert.Error(t, err)
}
