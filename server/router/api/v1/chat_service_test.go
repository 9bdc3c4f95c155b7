package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoo-app/assistant/plugin/llm"
)

func TestGenerateChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty messages", map[string]any{"messages": []any{}, "user_id": "u1"}},
		{"missing user id", map[string]any{"messages": []map[string]string{{"role": "user", "content": "hi"}}}},
		{"blank user id", map[string]any{"messages": []map[string]string{{"role": "user", "content": "hi"}}, "user_id": "  "}},
		{"invalid role", map[string]any{"messages": []map[string]string{{"role": "system", "content": "hi"}}, "user_id": "u1"}},
		{"empty content", map[string]any{"messages": []map[string]string{{"role": "user", "content": "   "}}, "user_id": "u1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &scriptedCompleter{reply: "should not be called"}
			_, srv := newTestServer(t, stub, "key")

			code, _ := postJSON(t, srv.URL+"/api/generate_chat", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Zero(t, stub.callCount(), "validation failures must not reach the upstream")
		})
	}
}

func TestGenerateChatSuccess(t *testing.T) {
	stub := &scriptedCompleter{reply: "Go to Wallet -> + Add Credits."}
	_, srv := newTestServer(t, stub, "key")

	code, body := postJSON(t, srv.URL+"/api/generate_chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "how do I add money?"},
		},
		"user_id": "u1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Go to Wallet -> + Add Credits.", body["response"])
	assert.Equal(t, 1, stub.callCount())
}

func TestGenerateChatUpstreamFailure(t *testing.T) {
	stub := &scriptedCompleter{
		reply:  "unused",
		failOn: map[string]error{"hi": llm.ErrUnavailable},
	}
	_, srv := newTestServer(t, stub, "key")

	code, body := postJSON(t, srv.URL+"/api/generate_chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
		"user_id":  "u1",
	})
	require.Equal(t, http.StatusOK, code, "business failures are structured responses, not transport faults")
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGenerateChatMissingCredential(t *testing.T) {
	stub := &scriptedCompleter{reply: "unused"}
	_, srv := newTestServer(t, stub, "")

	code, _ := postJSON(t, srv.URL+"/api/generate_chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
		"user_id":  "u1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Zero(t, stub.callCount())
}

func TestHealth(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		_, srv := newTestServer(t, &scriptedCompleter{}, "key")
		code, body := getJSON(t, srv.URL+"/health")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "test-model", body["model"])
	})
	t.Run("missing credential", func(t *testing.T) {
		_, srv := newTestServer(t, &scriptedCompleter{}, "")
		code, body := getJSON(t, srv.URL+"/health")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "error", body["status"])
		assert.NotEmpty(t, body["message"])
	})
}
