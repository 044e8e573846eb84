package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink/internal/models/request_models"
	"carelink/internal/models/response_models"
	"carelink/internal/services"
	"carelink/pkg/utils"
)

type SubscriptionController struct {
	planService         services.PlanServiceInterface
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(
	planService services.PlanServiceInterface,
	subscriptionService services.SubscriptionServiceInterface,
) *SubscriptionController {
	return &SubscriptionController{
		planService:         planService,
		subscriptionService: subscriptionService,
	}
}

// ListPlans godoc
// @Summary List active subscription plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/plans [get]
func (s *SubscriptionController) ListPlans(c *gin.Context) {
	plans, err := s.planService.ListActivePlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// CreatePlan godoc
// @Summary Create a subscription plan
// @Description Admin only; priced plans are registered with the billing provider first
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Plan payload"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/plans [post]
func (s *SubscriptionController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := s.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": plan.ID, "name": plan.Name}, "Plan created successfully")
}

// DeactivatePlan godoc
// @Summary Deactivate a subscription plan
// @Description Admin only; existing subscribers keep their subscription
// @Tags Subscriptions
// @Produce json
// @Param plan_id path string true "Plan id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/plans/{plan_id} [delete]
func (s *SubscriptionController) DeactivatePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("plan_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	if err := s.planService.DeactivatePlan(c.Request.Context(), planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deactivated successfully")
}

// GetStatus godoc
// @Summary Get the authenticated account's subscription status
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/status [get]
func (s *SubscriptionController) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := s.subscriptionService.GetStatus(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Subscription status fetched successfully")
}

// ChangeSubscription godoc
// @Summary Switch the authenticated account to a different plan
// @Description Replaces the current subscription; the old one is cancelled with the provider
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.ChangeSubscriptionRequest true "Plan change payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/change [post]
func (s *SubscriptionController) ChangeSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	sub, err := s.subscriptionService.ChangeSubscription(c.Request.Context(), userID, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SubscriptionResponse{
		ID:                     sub.ID,
		PlanID:                 sub.PlanID,
		Status:                 string(sub.Status),
		ExternalSubscriptionID: sub.ExternalSubscriptionID,
		StartedAt:              sub.StartedAt,
	}, "Subscription changed successfully")
}
