package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnector_RequiresURL(t *testing.T) {
	_, err := NewConnector(map[string]any{})
	assert.Error(t, err)
}

func TestNewConnector_Defaults(t *testing.T) {
	connector, err := NewConnector(map[string]any{"url": "http://example.com/hook"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, connector.Method)
	assert.Empty(t, connector.Headers)
	assert.Nil(t, connector.Body)
}

func TestNewConnector_NormalizesMethod(t *testing.T) {
	connector, err := NewConnector(map[string]any{"url": "http://example.com", "method": "put"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, connector.Method)
}

func TestConnector_Execute_Success(t *testing.T) {
	var receivedBody map[string]any

	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &receivedBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	connector, err := NewConnector(map[string]any{
		"url":    server.URL,
		"method": "POST",
		"headers": map[string]any{
			"Authorization": "Bearer {token}",
		},
		"body": map[string]any{
			"email": "{customer_email}",
		},
	})
	require.NoError(t, err)

	runContext := map[string]any{
		"token":          "secret",
		"customer_email": "c@example.com",
	}

	result, err := connector.Execute(context.Background(), runContext)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", receivedAuth)
	assert.Equal(t, "c@example.com", receivedBody["email"])

	// Original context keys survive untouched.
	assert.Equal(t, "secret", result["token"])
	assert.Equal(t, "c@example.com", result["customer_email"])

	response, ok := result["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, response["status_code"])
	assert.Equal(t, map[string]any{"ok": true}, response["body"])
}

func TestConnector_Execute_UnresolvedPlaceholderSurvives(t *testing.T) {
	var receivedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &receivedBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	connector, err := NewConnector(map[string]any{
		"url":  server.URL,
		"body": map[string]any{"ref": "{missing_key}"},
	})
	require.NoError(t, err)

	_, err = connector.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "{missing_key}", receivedBody["ref"])
}

func TestConnector_Execute_UnreachableTargetSwallowsError(t *testing.T) {
	connector, err := NewConnector(map[string]any{
		"url": "http://127.0.0.1:1/unreachable",
	})
	require.NoError(t, err)

	runContext := map[string]any{"k": "v"}

	result, err := connector.Execute(context.Background(), runContext)

	// The step still succeeds; the failure is data, not an error.
	require.NoError(t, err)
	assert.Contains(t, result, "error")
	assert.Equal(t, "v", result["k"])
	assert.NotContains(t, result, "response")
}

func TestConnector_Execute_Non2xxSwallowsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	connector, err := NewConnector(map[string]any{"url": server.URL})
	require.NoError(t, err)

	result, err := connector.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	errMsg, ok := result["error"].(string)
	require.True(t, ok)
	assert.Contains(t, errMsg, "500")
}

func TestConnector_Execute_NonJSONResponseKeptAsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	}))
	defer server.Close()

	connector, err := NewConnector(map[string]any{"url": server.URL, "method": "GET"})
	require.NoError(t, err)

	result, err := connector.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	response, ok := result["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pong", response["body"])
}
