package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cellular-usage-report/internal/config"
	"cellular-usage-report/internal/delivery/http/handler/mocks"
	"cellular-usage-report/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, health func() error) *gin.Engine {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	return SetupRoutes(cfg, Dependencies{
		Reports:     mocks.NewMockReportService(ctrl),
		Operators:   mocks.NewMockOperatorService(ctrl),
		RateLimiter: middleware.NewRateLimiter(100, 100),
		Health:      health,
	})
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(newRouter(t, nil), "/health").Code)

	unhealthy := newRouter(t, func() error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, get(unhealthy, "/health").Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter(t, nil)

	for _, path := range []string{"/api/v1/profile", "/api/v1/admin/operators", "/api/v1/admin/metrics"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path).Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reports/usage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
