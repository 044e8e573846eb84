package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carelink/internal/models/db_models"
)

type IPlanRepository interface {
	FindByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	ListActive(ctx context.Context) ([]db_models.Plan, error)
	Insert(ctx context.Context, plan *db_models.Plan) error
	Update(ctx context.Context, plan *db_models.Plan) error
	Upsert(ctx context.Context, plan *db_models.Plan) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p *PlanRepository) FindByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p *PlanRepository) ListActive(ctx context.Context) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (p *PlanRepository) Insert(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Create(plan).Error
}

func (p *PlanRepository) Update(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Save(plan).Error
}

// Upsert is keyed on external_price_id so replayed provider events converge on
// a single row. Only the resynced fields are overwritten on conflict; the
// feature set assigned at first insert stays put.
func (p *PlanRepository) Upsert(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_price_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price_usd", "currency", "updated_at"}),
	}).Create(plan).Error
}
