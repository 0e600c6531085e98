package handler

import (
	"net/http"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/internal/middleware"
	"cellular-usage-report/internal/usecase/report"
	"cellular-usage-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes expects an authenticated group.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	reports.Use(middleware.RequireCapability(domainOperator.CapabilityViewUsage))
	{
		reports.POST("/usage", h.UsageReport)
	}
}

func (h *ReportHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/metrics", h.Metrics)
}

type usageReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// Defaults to true for operators allowed to see locations.
	IncludeLocations *bool `json:"include_locations"`
}

func (h *ReportHandler) UsageReport(c *gin.Context) {
	var req usageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	role, _ := middleware.GetRole(c)
	canLocate := role.Can(domainOperator.CapabilityViewLocations)

	includeLocations := canLocate
	if req.IncludeLocations != nil {
		if *req.IncludeLocations && !canLocate {
			utils.ErrorResponseWithCode(c, http.StatusForbidden, "FORBIDDEN", "Location lookups are not permitted for this role", nil)
			return
		}
		includeLocations = *req.IncludeLocations
	}

	result, err := h.service.Run(c.Request.Context(), &report.RunRequest{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IncludeLocations: includeLocations && h.service.LocationsAvailable(),
		RequestedBy:      middleware.GetUsername(c),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Usage report generated", result)
}

func (h *ReportHandler) Metrics(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Pipeline metrics", h.service.Metrics())
}
