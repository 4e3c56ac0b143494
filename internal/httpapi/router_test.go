package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"polychat/internal/catalog"
	"polychat/internal/config"
)

// newTestRouter builds a full router against the flat-file backend in a
// temporary directory.
func newTestRouter(t *testing.T) (*http.ServeMux, *config.Config) {
	t.Helper()

	// Blank provider API key variables so env seeding cannot leak in
	for _, entry := range catalog.All() {
		t.Setenv(entry.EnvVar, "")
	}

	cfg := &config.Config{
		HTTPPort:   "0",
		JWTSecret:  []byte("test-secret"),
		SessionTTL: time.Hour,
		Storage: config.StorageConfig{
			SettingsFile: filepath.Join(t.TempDir(), "settings.json"),
		},
		Probe: config.ProbeConfig{Timeout: time.Second},
		Chat: config.ChatConfig{
			RequestTimeout:  time.Second,
			SimulateOnError: false,
		},
	}

	mux, _ := NewRouter(context.Background(), cfg)
	return mux, cfg
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an account and returns a session token.
func registerAndLogin(t *testing.T, mux *http.ServeMux, email string) string {
	t.Helper()

	w := doJSON(t, mux, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}
