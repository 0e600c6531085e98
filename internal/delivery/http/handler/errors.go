package handler

import (
	"errors"
	"net/http"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"
	"cellular-usage-report/internal/middleware"
	appErrors "cellular-usage-report/pkg/errors"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var (
		statusErr    *usage.UpstreamStatusError
		transportErr *usage.TransportError
		appErr       *appErrors.AppError
	)

	switch {
	case errors.Is(err, usage.ErrTokenUnavailable):
		utils.ErrorResponseWithCode(c, http.StatusBadGateway, "TOKEN_ACQUISITION_FAILED",
			"Could not obtain an access token from the upstream API", nil)
	case errors.As(err, &statusErr):
		utils.ErrorResponseWithCode(c, http.StatusBadGateway, "UPSTREAM_ERROR",
			statusErr.Error(), gin.H{"service": statusErr.Service, "status_code": statusErr.StatusCode})
	case errors.As(err, &transportErr):
		utils.ErrorResponseWithCode(c, http.StatusGatewayTimeout, "UPSTREAM_UNREACHABLE",
			"Upstream API could not be reached", gin.H{"service": transportErr.Service})
	case errors.Is(err, usage.ErrMalformedResponse):
		utils.ErrorResponseWithCode(c, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error(), nil)
	case errors.Is(err, domainOperator.ErrOperatorAlreadyExists):
		utils.ErrorResponseWithCode(c, http.StatusConflict, "OPERATOR_EXISTS", err.Error(), nil)
	case errors.Is(err, domainOperator.ErrReadOnlyStore):
		utils.ErrorResponseWithCode(c, http.StatusConflict, "READ_ONLY_STORE", err.Error(), nil)
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponseWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
	case errors.Is(err, appErrors.ErrOperatorInactive),
		errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponseWithCode(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, domainOperator.ErrOperatorNotFound):
		utils.ErrorResponseWithCode(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.As(err, &appErr):
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, appErr.Code, appErr.Message, nil)
	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponseWithCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
