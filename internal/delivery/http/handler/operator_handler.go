package handler

import (
	"net/http"

	"cellular-usage-report/internal/middleware"
	"cellular-usage-report/internal/usecase/operator"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OperatorHandler struct {
	service OperatorService
}

func NewOperatorHandler(service OperatorService) *OperatorHandler {
	return &OperatorHandler{service: service}
}

func (h *OperatorHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", h.Login)
}

func (h *OperatorHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
}

func (h *OperatorHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/operators", h.ListOperators)
	router.POST("/operators", h.CreateOperator)
}

func (h *OperatorHandler) Login(c *gin.Context) {
	var req operator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", authResponse)
}

func (h *OperatorHandler) GetProfile(c *gin.Context) {
	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		utils.ErrorResponseWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Operator not authenticated", nil)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), operatorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved", profile)
}

func (h *OperatorHandler) ListOperators(c *gin.Context) {
	operators, err := h.service.ListOperators(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operators retrieved", operators)
}

func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	var req operator.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	created, err := h.service.CreateOperator(c.Request.Context(), &req, middleware.GetUsername(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Operator created", created)
}
