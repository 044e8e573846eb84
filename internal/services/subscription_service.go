package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"carelink/internal/models/db_models"
	"carelink/internal/models/response_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

// FreeTierPlanName is what the status read reports when an account has no
// subscription row: absence is an implicit free tier, not an error.
const FreeTierPlanName = "Freemium"

type SubscriptionServiceInterface interface {
	CreateSubscription(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error)
	ChangeSubscription(ctx context.Context, accountID, newPlanID uuid.UUID) (*db_models.Subscription, error)
	UpdateStatusByExternalID(ctx context.Context, externalSubscriptionID, status string) error
	GetStatus(ctx context.Context, accountID uuid.UUID) (response_models.SubscriptionStatusResponse, error)
	HasFeatureAccess(ctx context.Context, accountID uuid.UUID, featureKey string) (bool, error)
	RequireFeature(ctx context.Context, accountID uuid.UUID, featureKey string) error
}

type SubscriptionService struct {
	db          *gorm.DB
	subRepo     repositories.ISubscriptionRepository
	planRepo    repositories.IPlanRepository
	accountRepo repositories.AccountRepository
	billing     BillingClient
}

func NewSubscriptionService(
	db *gorm.DB,
	subRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	accountRepo repositories.AccountRepository,
	billing BillingClient,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		db:          db,
		subRepo:     subRepo,
		planRepo:    planRepo,
		accountRepo: accountRepo,
		billing:     billing,
	}
}

// provisionExternal creates the provider-side subscription for a paid plan.
// Free plans have no provider counterpart and start active immediately.
func (s *SubscriptionService) provisionExternal(ctx context.Context, account *db_models.Account, plan *db_models.Plan) (*string, db_models.SubscriptionStatus, error) {
	if plan.ExternalPriceID == nil {
		return nil, db_models.SubStatusActive, nil
	}
	if account.BillingCustomerID == nil {
		return nil, "", fmt.Errorf("%w: account has no billing customer", utils.ErrDependency)
	}

	result, err := s.billing.CreateSubscription(ctx, *account.BillingCustomerID, *plan.ExternalPriceID)
	if err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("provider subscription creation failed")
		return nil, "", utils.ErrDependency
	}

	return &result.ExternalID, db_models.ParseSubscriptionStatus(result.Status), nil
}

// replace performs the swap to a new plan. The provider subscription is
// created first, then the local delete-old/insert-new runs in one transaction,
// so a failure at any point leaves the account with its previous subscription
// intact. Provider-side cleanup of the losing subscription is best-effort.
func (s *SubscriptionService) replace(ctx context.Context, account *db_models.Account, plan *db_models.Plan, current *db_models.Subscription) (*db_models.Subscription, error) {
	externalID, status, err := s.provisionExternal(ctx, account, plan)
	if err != nil {
		return nil, err
	}

	newSub := &db_models.Subscription{
		AccountID:              account.ID,
		PlanID:                 plan.ID,
		ExternalSubscriptionID: externalID,
		Status:                 status,
		StartedAt:              time.Now().Unix(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if current != nil {
			// Hard delete: the unique index on account_id must be free for the
			// replacement row.
			if err := tx.Unscoped().Delete(&db_models.Subscription{}, "id = ?", current.ID).Error; err != nil {
				return err
			}
		}
		return tx.Create(newSub).Error
	})
	if err != nil {
		// The swap lost (e.g. a concurrent change won the unique index). The
		// provider subscription we just created must not be left billing.
		if externalID != nil {
			if cancelErr := s.billing.CancelSubscription(ctx, *externalID); cancelErr != nil {
				log.WithError(cancelErr).WithField("external_subscription_id", *externalID).
					Warn("orphaned provider subscription could not be cancelled")
			}
		}
		log.WithError(err).WithField("account_id", account.ID).Error("subscription swap failed")
		return nil, utils.ErrDatabaseError
	}

	if current != nil && current.ExternalSubscriptionID != nil {
		if cancelErr := s.billing.CancelSubscription(ctx, *current.ExternalSubscriptionID); cancelErr != nil {
			log.WithError(cancelErr).WithFields(log.Fields{
				"account_id":               account.ID,
				"external_subscription_id": *current.ExternalSubscriptionID,
			}).Warn("provider cancellation of replaced subscription failed")
		}
	}

	return newSub, nil
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error) {
	plan, account, current, err := s.loadForChange(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("%w: account already has a subscription", utils.ErrValidation)
	}
	return s.replace(ctx, account, plan, nil)
}

func (s *SubscriptionService) ChangeSubscription(ctx context.Context, accountID, newPlanID uuid.UUID) (*db_models.Subscription, error) {
	plan, account, current, err := s.loadForChange(ctx, accountID, newPlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, utils.ErrPlanInactive
	}
	return s.replace(ctx, account, plan, current)
}

func (s *SubscriptionService) loadForChange(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Plan, *db_models.Account, *db_models.Subscription, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, nil, nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, nil, nil, utils.ErrPlanNotFound
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, nil, nil, utils.ErrAccountNotFound
	}

	current, err := s.subRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, nil, utils.ErrDatabaseError
	}

	return plan, account, current, nil
}

// UpdateStatusByExternalID is the only path that moves a subscription's status
// after creation; payment state is never inferred locally.
func (s *SubscriptionService) UpdateStatusByExternalID(ctx context.Context, externalSubscriptionID, status string) error {
	rows, err := s.subRepo.UpdateStatus(ctx, externalSubscriptionID, db_models.ParseSubscriptionStatus(status))
	if err != nil {
		return utils.ErrDatabaseError
	}
	if rows == 0 {
		// Events can outrun or outlive the row they describe (e.g. a replaced
		// subscription). Log for reconciliation, report not found.
		log.WithField("external_subscription_id", externalSubscriptionID).
			Warn("status event for unknown subscription")
		return fmt.Errorf("%w: subscription %s", utils.ErrNotFound, externalSubscriptionID)
	}
	return nil
}

func (s *SubscriptionService) GetStatus(ctx context.Context, accountID uuid.UUID) (response_models.SubscriptionStatusResponse, error) {
	sub, err := s.subRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return response_models.SubscriptionStatusResponse{}, utils.ErrDatabaseError
	}
	if sub == nil {
		return response_models.SubscriptionStatusResponse{
			Status: "inactive",
			Plan:   FreeTierPlanName,
		}, nil
	}

	planName := "Unknown"
	var features map[string]interface{}
	plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return response_models.SubscriptionStatusResponse{}, utils.ErrDatabaseError
	}
	if plan != nil {
		planName = plan.Name
		if len(plan.Features) > 0 {
			if err := json.Unmarshal(plan.Features, &features); err != nil {
				features = map[string]interface{}{}
			}
		}
	}

	return response_models.SubscriptionStatusResponse{
		Status:   string(sub.Status),
		Plan:     planName,
		Features: features,
	}, nil
}

func featureEnabled(features map[string]interface{}, key string) bool {
	v, ok := features[key]
	if !ok {
		return false
	}
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value > 0
	case string:
		return value != ""
	}
	return true
}

// HasFeatureAccess is the soft entitlement read: no subscription row means the
// empty feature set, never an error.
func (s *SubscriptionService) HasFeatureAccess(ctx context.Context, accountID uuid.UUID, featureKey string) (bool, error) {
	status, err := s.GetStatus(ctx, accountID)
	if err != nil {
		return false, err
	}
	return featureEnabled(status.Features, featureKey), nil
}

// RequireFeature is the strict variant for operations that need a paid plan.
func (s *SubscriptionService) RequireFeature(ctx context.Context, accountID uuid.UUID, featureKey string) error {
	sub, err := s.subRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if sub == nil {
		return utils.ErrNoSubscription
	}

	enabled, err := s.HasFeatureAccess(ctx, accountID, featureKey)
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("%w: plan does not include %s", utils.ErrForbidden, featureKey)
	}
	return nil
}
