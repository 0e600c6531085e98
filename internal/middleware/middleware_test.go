package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	chain := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := GetOperatorID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": GetUsername(c), "role": role})
	})
	r.GET("/protected", chain...)
	return r
}

func bearer(t *testing.T, role domainOperator.Role) string {
	t.Helper()
	token, _, err := utils.GenerateAccessToken(uuid.New(), "alice", string(role), testSecret, 1)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", bearer(t, domainOperator.RoleOperator), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	token, _, err := utils.GenerateAccessToken(uuid.New(), "mallory", "admin", "other-secret", 1)
	require.NoError(t, err)

	w := serve(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddlewareStoresClaims(t *testing.T) {
	w := serve(newProtectedRouter(), bearer(t, domainOperator.RoleManager))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireCapability(t *testing.T) {
	r := newProtectedRouter(RequireCapability(domainOperator.CapabilityViewLocations))

	assert.Equal(t, http.StatusForbidden, serve(r, bearer(t, domainOperator.RoleOperator)).Code)
	assert.Equal(t, http.StatusOK, serve(r, bearer(t, domainOperator.RoleManager)).Code)

	admin := newProtectedRouter(AdminOnly())
	assert.Equal(t, http.StatusForbidden, serve(admin, bearer(t, domainOperator.RoleManager)).Code)
	assert.Equal(t, http.StatusOK, serve(admin, bearer(t, domainOperator.RoleAdmin)).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1000, 1)
	limiter.getLimiter("10.0.0.1")
	limiter.prune()
	assert.Zero(t, limiter.Len())
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
