package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsLoad_EmptyAccount(t *testing.T) {
	mux, _ := newTestRouter(t)
	token := registerAndLogin(t, mux, "alice@example.com")

	w := doJSON(t, mux, http.MethodGet, "/settings/load", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	providers, ok := data["providers"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, providers)
	templates, ok := data["promptTemplates"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, templates)
}

func TestSettingsSaveAndLoad(t *testing.T) {
	mux, _ := newTestRouter(t)
	token := registerAndLogin(t, mux, "alice@example.com")

	save := map[string]interface{}{
		"providers": []map[string]interface{}{
			{
				"id":              "openai",
				"name":            "openai",
				"displayName":     "OpenAI",
				"apiKey":          "sk-test",
				"baseUrl":         "https://api.openai.com",
				"availableModels": "gpt-4, gpt-3.5-turbo",
				"enabled":         true,
			},
		},
		"promptTemplates": []map[string]interface{}{
			{"id": "1", "title": "Review", "content": "Review this."},
		},
	}

	w := doJSON(t, mux, http.MethodPost, "/settings/save", token, save)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["providersCount"])
	assert.Equal(t, float64(1), data["promptTemplatesCount"])

	w = doJSON(t, mux, http.MethodGet, "/settings/load", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	data = body["data"].(map[string]interface{})
	providers := data["providers"].([]interface{})
	require.Len(t, providers, 1)
	provider := providers[0].(map[string]interface{})
	assert.Equal(t, "openai", provider["id"])
	assert.Equal(t, "sk-test", provider["apiKey"])
	assert.Equal(t, true, provider["enabled"])
}

func TestSettingsSave_IsolatedBetweenUsers(t *testing.T) {
	mux, _ := newTestRouter(t)
	aliceToken := registerAndLogin(t, mux, "alice@example.com")
	bobToken := registerAndLogin(t, mux, "bob@example.com")

	w := doJSON(t, mux, http.MethodPost, "/settings/save", aliceToken, map[string]interface{}{
		"providers": []map[string]interface{}{
			{"id": "openai", "apiKey": "sk-alice", "enabled": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/settings/load", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["providers"])
}

func TestTestConnection_Validation(t *testing.T) {
	mux, _ := newTestRouter(t)
	token := registerAndLogin(t, mux, "alice@example.com")

	w := doJSON(t, mux, http.MethodPost, "/settings/test-connection", token, map[string]string{
		"providerId": "openai",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, http.MethodPost, "/settings/test-connection", token, map[string]string{
		"providerId": "not-a-provider",
		"apiKey":     "sk-test",
		"baseUrl":    "https://example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"gpt-4"}]}`))
	}))
	defer server.Close()

	mux, _ := newTestRouter(t)
	token := registerAndLogin(t, mux, "alice@example.com")

	w := doJSON(t, mux, http.MethodPost, "/settings/test-connection", token, map[string]string{
		"providerId": "openai",
		"apiKey":     "sk-test",
		"baseUrl":    server.URL,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "gpt-4", body["availableModels"])
}

func TestTestConnection_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	mux, _ := newTestRouter(t)
	token := registerAndLogin(t, mux, "alice@example.com")

	w := doJSON(t, mux, http.MethodPost, "/settings/test-connection", token, map[string]string{
		"providerId": "openai",
		"apiKey":     "sk-bad",
		"baseUrl":    server.URL,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Incorrect API key provided", body["error"])
}
