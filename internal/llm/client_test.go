package llm

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

func TestOpenAIClientChat(t *testing.T) {
	t.Run("returns first choice content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-4", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "analysis text"}},
				},
			})
		}))
		defer server.Close()

		client := NewOpenAIClient(ClientConfig{
			APIKey:  "test-key",
			Model:   "gpt-4",
			BaseURL: server.URL,
		})

		out, err := client.Chat(context.Background(), []Message{
			{Role: "system", Content: "You are an investigator."},
			{Role: "user", Content: "Analyze this complaint."},
		})

		require.NoError(t, err)
		assert.Equal(t, "analysis text", out)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "invalid api key", "type": "auth_error"},
			})
		}))
		defer server.Close()

		client := NewOpenAIClient(ClientConfig{APIKey: "bad", Model: "gpt-4", BaseURL: server.URL})

		_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("errors on empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer server.Close()

		client := NewOpenAIClient(ClientConfig{APIKey: "k", Model: "gpt-4", BaseURL: server.URL})

		_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewOpenAIClient(ClientConfig{APIKey: "k", Model: "gpt-4", BaseURL: server.URL})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Chat(ctx, []Message{{Role: "user", Content: "hi"}})
		require.Error(t, err)
	})
}
