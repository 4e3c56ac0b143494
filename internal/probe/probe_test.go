package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/config"
	"polychat/internal/utils"
)

func newTestTester(timeout time.Duration) *Tester {
	return NewTester(config.ProbeConfig{Timeout: timeout}, utils.NewLogger("test"))
}

func TestTest_MissingParams(t *testing.T) {
	tester := newTestTester(time.Second)
	ctx := context.Background()

	_, err := tester.Test(ctx, "", "key", "https://example.com")
	assert.ErrorIs(t, err, ErrMissingParams)

	_, err = tester.Test(ctx, "openai", "", "https://example.com")
	assert.ErrorIs(t, err, ErrMissingParams)

	_, err = tester.Test(ctx, "openai", "key", "")
	assert.ErrorIs(t, err, ErrMissingParams)
}

func TestTest_UnknownProvider(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	_, err := tester.Test(context.Background(), "not-a-provider", "key", server.URL)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.False(t, called, "unknown providers must not reach the network")
}

func TestTest_OpenAIShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"gpt-4"},{"id":"gpt-4-turbo"},{"id":"gpt-3.5-turbo"}]}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "gpt-4, gpt-4-turbo, gpt-3.5-turbo", result.AvailableModels)
	assert.Empty(t, result.Error)
}

func TestTest_OpenAIShape_TrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"deepseek-chat"}]}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "deepseek", "sk-test", server.URL+"/")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestTest_GeminiShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)
		assert.Equal(t, "sk-gemini", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"models":[{"name":"models/gemini-pro"},{"name":"","displayName":"Gemini Vision"}]}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "gemini", "sk-gemini", server.URL)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "gemini-pro, Gemini Vision", result.AvailableModels)
}

func TestTest_ModelSampleCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"m1"},{"id":"m2"},{"id":"m3"},{"id":"m4"},{"id":"m5"},{"id":"m6"},{"id":"m7"}]}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "m1, m2, m3, m4, m5", result.AvailableModels)
}

func TestTest_EmptyModelList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "connection established", result.AvailableModels)
}

func TestTest_ProviderErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-bad", server.URL)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Incorrect API key provided", result.Error)
}

func TestTest_ProviderErrorFlatMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"quota exceeded"}`))
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "quota exceeded", result.Error)
}

func TestTest_ProviderErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "HTTP 503: Service Unavailable", result.Error)
}

func TestTest_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	tester := newTestTester(20 * time.Millisecond)
	result, err := tester.Test(context.Background(), "openai", "sk-test", server.URL)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
}

func TestTest_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tester := newTestTester(time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test", url)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "refused")
}

func TestTest_DNSFailure(t *testing.T) {
	tester := newTestTester(2 * time.Second)
	result, err := tester.Test(context.Background(), "openai", "sk-test",
		"https://definitely-not-a-real-host.invalid")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "resolve")
}
