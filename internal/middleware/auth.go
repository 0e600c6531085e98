package middleware

import (
	"net/http"
	"strings"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	OperatorIDKey = "operatorID"
	UsernameKey   = "username"
	RoleKey       = "role"
)

// AuthMiddleware validates the bearer token and stores the operator claims
// in the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponseWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required", nil)
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			utils.ErrorResponseWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			utils.ErrorResponseWithCode(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, domainOperator.Role(claims.Role))

		c.Next()
	}
}

// GetOperatorID returns the authenticated operator id, if any.
func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(OperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

func GetRole(c *gin.Context) (domainOperator.Role, bool) {
	v, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(domainOperator.Role)
	return role, ok
}
