package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDiagnostics(t *testing.T) (*zap.Logger, func() []string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "token_errors.log")
	diag, closeFn, err := logger.NewDiagnosticLog(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	lines := func() []string {
		_ = diag.Sync()
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		trimmed := strings.TrimSpace(string(data))
		if trimmed == "" {
			return nil
		}
		return strings.Split(trimmed, "\n")
	}

	return diag, lines
}

func TestAcquireReturnsAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret-1", r.PostForm.Get("client_secret"))
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "abc123", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	diag, lines := newDiagnostics(t)
	provider := NewTokenProvider("usage", server.URL, "client-1", "secret-1", server.Client(), diag)

	token, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
	assert.Empty(t, lines())
}

func TestAcquireFailureAppendsOneDiagnosticLine(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	diag, lines := newDiagnostics(t)
	provider := NewTokenProvider("usage", server.URL, "client-1", "wrong", server.Client(), diag)

	token, err := provider.Acquire(context.Background())
	assert.Empty(t, token)
	assert.ErrorIs(t, err, usage.ErrTokenUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "token request must not be retried")

	logged := lines()
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "401")
	assert.Contains(t, logged[0], "invalid_client")
}

func TestAcquireDoesNotCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "abc", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	provider := NewTokenProvider("usage", server.URL, "id", "secret", server.Client(), nil)

	for i := 0; i < 3; i++ {
		_, err := provider.Acquire(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestAcquireTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tokenURL := server.URL
	server.Close()

	diag, lines := newDiagnostics(t)
	provider := NewTokenProvider("inventory", tokenURL, "id", "secret", nil, diag)

	_, err := provider.Acquire(context.Background())
	assert.ErrorIs(t, err, usage.ErrTokenUnavailable)
	require.Len(t, lines(), 1)
}
