package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/middleware"
)

// AnalysisController serves the admin overview and the health probe
type AnalysisController struct {
	analysisService *services.AnalysisService
	ping            func(ctx context.Context) error
}

// NewAnalysisController creates a new AnalysisController; ping checks the store
func NewAnalysisController(analysisService *services.AnalysisService, ping func(ctx context.Context) error) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
		ping:            ping,
	}
}

// GetAnalysis returns process stats, totals and per-course counts
// @Summary System analysis
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AnalysisResponse} "Analysis retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /analysis [get]
func (c *AnalysisController) GetAnalysis(ctx *gin.Context) {
	report, err := c.analysisService.Overview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report, "Analysis retrieved successfully"))
}

// Health reports whether the service and its store are reachable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *AnalysisController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if c.ping != nil {
		if err := c.ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
