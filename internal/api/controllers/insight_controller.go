package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/models/request_models"
	"carelink/internal/services"
	"carelink/pkg/utils"
)

type InsightController struct {
	insightService services.InsightServiceInterface
}

func NewInsightController(insightService services.InsightServiceInterface) *InsightController {
	return &InsightController{
		insightService: insightService,
	}
}

// GenerateInsight godoc
// @Summary Generate a health insight
// @Description Requires a plan with the ai_insights feature
// @Tags Insights
// @Accept json
// @Produce json
// @Param request body request_models.InsightRequest true "Insight payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /insights/generate [post]
func (i *InsightController) GenerateInsight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	insight, err := i.insightService.GenerateInsight(c.Request.Context(), userID, req.Topic)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, insight, "Insight generated successfully")
}
