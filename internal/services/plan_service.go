package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"carelink/internal/models/db_models"
	"carelink/internal/models/request_models"
	"carelink/internal/models/response_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

type PlanServiceInterface interface {
	UpsertPlan(ctx context.Context, externalPriceID, name, description string, amountMinorUnits int64, currency string) error
	CreatePlan(ctx context.Context, request request_models.CreatePlanRequest) (*db_models.Plan, error)
	ListActivePlans(ctx context.Context) ([]response_models.PlanResponse, error)
	DeactivatePlan(ctx context.Context, planID uuid.UUID) error
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	billing  BillingClient
}

func NewPlanService(planRepo repositories.IPlanRepository, billing BillingClient) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		billing:  billing,
	}
}

// DefaultFeatureSet derives a plan's features from its name when none were
// supplied. Substring matching, checked in this order; "freemium" is tested
// before "premium" so free-tier plans never pick up paid features.
func DefaultFeatureSet(planName string) map[string]interface{} {
	name := strings.ToLower(planName)
	switch {
	case strings.Contains(name, "freemium"):
		return map[string]interface{}{"ai_insights": false, "max_health_entries": 10}
	case strings.Contains(name, "premium"):
		return map[string]interface{}{"ai_insights": true, "max_health_entries": 100}
	case strings.Contains(name, "provider"):
		return map[string]interface{}{"ehr_access": true, "telehealth": true}
	case strings.Contains(name, "enterprise"):
		return map[string]interface{}{"analytics": true, "custom_branding": true, "population_health": true}
	}
	return map[string]interface{}{}
}

func featuresJSON(features map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// UpsertPlan resyncs the catalog from a provider price event. Safe under
// concurrent replay of the same event: the row is keyed on the external price
// id and written with an atomic update-or-insert.
func (p *PlanService) UpsertPlan(ctx context.Context, externalPriceID, name, description string, amountMinorUnits int64, currency string) error {
	features, err := featuresJSON(DefaultFeatureSet(name))
	if err != nil {
		return utils.ErrDatabaseError
	}

	plan := &db_models.Plan{
		Name:            name,
		Description:     description,
		PriceUSD:        float64(amountMinorUnits) / 100,
		Currency:        strings.ToLower(currency),
		ExternalPriceID: &externalPriceID,
		Features:        features,
		IsActive:        true,
	}

	if err := p.planRepo.Upsert(ctx, plan); err != nil {
		log.WithError(err).WithField("external_price_id", externalPriceID).Error("plan upsert failed")
		return utils.ErrDatabaseError
	}

	log.WithFields(log.Fields{
		"external_price_id": externalPriceID,
		"name":              name,
	}).Info("plan catalog synced")
	return nil
}

// CreatePlan is the admin path. A priced plan registers the provider product
// and recurring price first; if that fails nothing is stored locally. A free
// plan exists purely locally with no external price.
func (p *PlanService) CreatePlan(ctx context.Context, request request_models.CreatePlanRequest) (*db_models.Plan, error) {
	var externalPriceID *string
	if request.PriceUSD > 0 {
		priceID, err := p.billing.CreateRecurringPrice(ctx, request.Name, request.Description, int64(request.PriceUSD*100), "usd")
		if err != nil {
			log.WithError(err).WithField("plan", request.Name).Warn("provider price creation failed")
			return nil, utils.ErrDependency
		}
		externalPriceID = &priceID
	}

	featureSet := request.Features
	if len(featureSet) == 0 {
		featureSet = DefaultFeatureSet(request.Name)
	}
	features, err := featuresJSON(featureSet)
	if err != nil {
		return nil, fmt.Errorf("%w: features not serializable", utils.ErrValidation)
	}

	plan := &db_models.Plan{
		Name:            request.Name,
		Description:     request.Description,
		PriceUSD:        request.PriceUSD,
		Currency:        "usd",
		ExternalPriceID: externalPriceID,
		Features:        features,
		IsActive:        true,
	}
	if err := p.planRepo.Insert(ctx, plan); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return plan, nil
}

func (p *PlanService) ListActivePlans(ctx context.Context) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.ListActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		var features map[string]interface{}
		if len(plan.Features) > 0 {
			if err := json.Unmarshal(plan.Features, &features); err != nil {
				features = map[string]interface{}{}
			}
		}
		result = append(result, response_models.PlanResponse{
			ID:              plan.ID,
			Name:            plan.Name,
			Description:     plan.Description,
			PriceUSD:        plan.PriceUSD,
			Currency:        plan.Currency,
			ExternalPriceID: plan.ExternalPriceID,
			Features:        features,
			IsActive:        plan.IsActive,
		})
	}
	return result, nil
}

func (p *PlanService) DeactivatePlan(ctx context.Context, planID uuid.UUID) error {
	plan, err := p.planRepo.FindByID(ctx, planID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if plan == nil {
		return utils.ErrPlanNotFound
	}

	plan.IsActive = false
	if err := p.planRepo.Update(ctx, plan); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
