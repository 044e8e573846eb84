package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink/internal/models/db_models"
)

type ISubscriptionRepository interface {
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	UpdateStatus(ctx context.Context, externalSubscriptionID string, status db_models.SubscriptionStatus) (int64, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (s *SubscriptionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "account_id = ?", accountID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (s *SubscriptionRepository) UpdateStatus(ctx context.Context, externalSubscriptionID string, status db_models.SubscriptionStatus) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("external_subscription_id = ?", externalSubscriptionID).
		Update("status", status)
	return res.RowsAffected, res.Error
}
