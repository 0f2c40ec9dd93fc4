package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"openalgo-sheets/internal/bridge/config"
	"openalgo-sheets/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenAlgo: config.OpenAlgo{
			BaseURL:             baseURL,
			Version:             "v1",
			Timeout:             5 * time.Second,
			MaxRequestPerMinute: 60000,
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestPostSuccess(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "success", "data": {"ltp": 2500.4}}`))
	}))
	defer server.Close()

	repo := NewOpenAlgoRepository(testConfig(server.URL), testLogger(t))
	decoded, status, err := repo.Post(context.Background(), "quotes", map[string]interface{}{
		"apikey": "k",
		"symbol": "RELIANCE",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/api/v1/quotes", gotPath)
	assert.Equal(t, "RELIANCE", gotPayload["symbol"])

	m, ok := decoded.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "success", m["status"])
}

func TestPostHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	repo := NewOpenAlgoRepository(testConfig(server.URL), testLogger(t))
	_, status, err := repo.Post(context.Background(), "quotes", nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "HTTP Error 401: Unauthorized", err.Error())
}

func TestPostInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	repo := NewOpenAlgoRepository(testConfig(server.URL), testLogger(t))
	_, status, err := repo.Post(context.Background(), "quotes", nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, err.Error(), "JSON Decode Error")
}

func TestPostConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	repo := NewOpenAlgoRepository(testConfig(server.URL), testLogger(t))
	_, _, err := repo.Post(context.Background(), "quotes", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL Error")
}
