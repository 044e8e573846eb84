package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink/internal/models/db_models"
)

type IDelegationRepository interface {
	FindLink(ctx context.Context, grantorID, granteeID uuid.UUID) (*db_models.FamilyLink, error)
	InsertLink(ctx context.Context, link *db_models.FamilyLink) error
	DeleteLink(ctx context.Context, grantorID, granteeID uuid.UUID) error
	ListByGrantor(ctx context.Context, grantorID uuid.UUID) ([]db_models.FamilyLink, error)
	ListByGrantee(ctx context.Context, granteeID uuid.UUID) ([]db_models.FamilyLink, error)
	InsertAssignment(ctx context.Context, assignment *db_models.CaregiverAssignment) error
	ListAssignmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]db_models.CaregiverAssignment, error)
}

type DelegationRepository struct {
	db *gorm.DB
}

func NewDelegationRepository(db *gorm.DB) IDelegationRepository {
	return &DelegationRepository{db: db}
}

func (d *DelegationRepository) FindLink(ctx context.Context, grantorID, granteeID uuid.UUID) (*db_models.FamilyLink, error) {
	var link db_models.FamilyLink
	err := d.db.WithContext(ctx).
		Where("grantor_id = ? AND grantee_id = ?", grantorID, granteeID).
		First(&link).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &link, nil
}

func (d *DelegationRepository) InsertLink(ctx context.Context, link *db_models.FamilyLink) error {
	return d.db.WithContext(ctx).Create(link).Error
}

func (d *DelegationRepository) DeleteLink(ctx context.Context, grantorID, granteeID uuid.UUID) error {
	return d.db.WithContext(ctx).
		Where("grantor_id = ? AND grantee_id = ?", grantorID, granteeID).
		Delete(&db_models.FamilyLink{}).Error
}

func (d *DelegationRepository) ListByGrantor(ctx context.Context, grantorID uuid.UUID) ([]db_models.FamilyLink, error) {
	var links []db_models.FamilyLink
	err := d.db.WithContext(ctx).Where("grantor_id = ?", grantorID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (d *DelegationRepository) ListByGrantee(ctx context.Context, granteeID uuid.UUID) ([]db_models.FamilyLink, error) {
	var links []db_models.FamilyLink
	err := d.db.WithContext(ctx).Where("grantee_id = ?", granteeID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (d *DelegationRepository) InsertAssignment(ctx context.Context, assignment *db_models.CaregiverAssignment) error {
	return d.db.WithContext(ctx).Create(assignment).Error
}

func (d *DelegationRepository) ListAssignmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]db_models.CaregiverAssignment, error) {
	var assignments []db_models.CaregiverAssignment
	err := d.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
