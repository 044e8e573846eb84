package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"carelink/internal/models/response_models"
	"carelink/pkg/utils"
)

type InsightServiceInterface interface {
	GenerateInsight(ctx context.Context, accountID uuid.UUID, prompt string) (response_models.InsightResponse, error)
}

type InsightService struct {
	client       utils.InsightClientInterface
	subscription SubscriptionServiceInterface
}

func NewInsightService(client utils.InsightClientInterface, subscription SubscriptionServiceInterface) InsightServiceInterface {
	return &InsightService{
		client:       client,
		subscription: subscription,
	}
}

// GenerateInsight is entitlement-gated: the account's plan must carry the
// ai_insights feature before any model call is made.
func (i *InsightService) GenerateInsight(ctx context.Context, accountID uuid.UUID, prompt string) (response_models.InsightResponse, error) {
	if prompt == "" {
		return response_models.InsightResponse{}, fmt.Errorf("%w: prompt is required", utils.ErrValidation)
	}

	if err := i.subscription.RequireFeature(ctx, accountID, "ai_insights"); err != nil {
		return response_models.InsightResponse{}, err
	}

	text, err := i.client.GenerateText(ctx, prompt)
	if err != nil {
		log.WithError(err).WithField("account_id", accountID).Warn("insight generation failed")
		return response_models.InsightResponse{}, utils.ErrDependency
	}

	return response_models.InsightResponse{Insight: text}, nil
}
