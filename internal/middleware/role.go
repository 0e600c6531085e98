package middleware

import (
	"net/http"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/internal/logger"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireCapability lets the request through only when the operator's role
// grants capability.
func RequireCapability(capability domainOperator.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			utils.ErrorResponseWithCode(c, http.StatusForbidden, "FORBIDDEN", "Role not found in context", nil)
			c.Abort()
			return
		}

		if !role.Can(capability) {
			logger.Warn("Capability check failed",
				zap.String("request_id", GetRequestID(c)),
				zap.String("username", GetUsername(c)),
				zap.String("role", string(role)),
				zap.String("capability", string(capability)),
			)
			utils.ErrorResponseWithCode(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireCapability(domainOperator.CapabilityManageOperators)
}
