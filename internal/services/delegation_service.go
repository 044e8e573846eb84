package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"carelink/internal/models/db_models"
	"carelink/internal/models/request_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

type DelegationServiceInterface interface {
	CreateLink(ctx context.Context, grantorID, granteeID uuid.UUID, relationType, permission string) (*db_models.FamilyLink, bool, error)
	IsAuthorized(ctx context.Context, ownerID, requesterID uuid.UUID) (bool, error)
	ListMyGrants(ctx context.Context, grantorID uuid.UUID) ([]db_models.FamilyLink, error)
	ListGrantedToMe(ctx context.Context, granteeID uuid.UUID) ([]db_models.FamilyLink, error)
	RemoveLink(ctx context.Context, grantorID, granteeID uuid.UUID) error
	AssignCaregiver(ctx context.Context, actorRole db_models.Role, request request_models.CaregiverAssignmentRequest) (*db_models.CaregiverAssignment, error)
	ListPatientAssignments(ctx context.Context, actorID, patientID uuid.UUID) ([]db_models.CaregiverAssignment, error)
	GetCaregiverProfile(ctx context.Context, accountID uuid.UUID) (*db_models.CaregiverProfile, error)
}

type DelegationService struct {
	delegationRepo repositories.IDelegationRepository
	accountRepo    repositories.AccountRepository
}

func NewDelegationService(
	delegationRepo repositories.IDelegationRepository,
	accountRepo repositories.AccountRepository,
) DelegationServiceInterface {
	return &DelegationService{
		delegationRepo: delegationRepo,
		accountRepo:    accountRepo,
	}
}

// CreateLink inserts a delegation row. A second call for the same ordered pair
// is an idempotent no-op: the existing link comes back with created=false.
func (d *DelegationService) CreateLink(ctx context.Context, grantorID, granteeID uuid.UUID, relationType, permission string) (*db_models.FamilyLink, bool, error) {
	if grantorID == granteeID {
		return nil, false, utils.ErrSelfLink
	}

	if permission == "" {
		permission = db_models.PermissionRead
	}
	if permission != db_models.PermissionRead && permission != db_models.PermissionManage {
		return nil, false, fmt.Errorf("%w: permission must be read or manage", utils.ErrValidation)
	}

	grantee, err := d.accountRepo.FindByID(ctx, granteeID)
	if err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	if grantee == nil {
		return nil, false, utils.ErrAccountNotFound
	}

	existing, err := d.delegationRepo.FindLink(ctx, grantorID, granteeID)
	if err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	if existing != nil {
		return existing, false, nil
	}

	link := &db_models.FamilyLink{
		GrantorID:    grantorID,
		GranteeID:    granteeID,
		RelationType: relationType,
		Permission:   permission,
	}
	if err := d.delegationRepo.InsertLink(ctx, link); err != nil {
		return nil, false, utils.ErrDatabaseError
	}

	return link, true, nil
}

// IsAuthorized reports whether requesterID may access ownerID's records. The
// owner is always authorized; otherwise the predicate is row existence, with
// the permission level left to callers that need the read/manage distinction.
func (d *DelegationService) IsAuthorized(ctx context.Context, ownerID, requesterID uuid.UUID) (bool, error) {
	if ownerID == requesterID {
		return true, nil
	}

	link, err := d.delegationRepo.FindLink(ctx, ownerID, requesterID)
	if err != nil {
		return false, utils.ErrDatabaseError
	}
	return link != nil, nil
}

func (d *DelegationService) ListMyGrants(ctx context.Context, grantorID uuid.UUID) ([]db_models.FamilyLink, error) {
	links, err := d.delegationRepo.ListByGrantor(ctx, grantorID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return links, nil
}

func (d *DelegationService) ListGrantedToMe(ctx context.Context, granteeID uuid.UUID) ([]db_models.FamilyLink, error) {
	links, err := d.delegationRepo.ListByGrantee(ctx, granteeID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return links, nil
}

func (d *DelegationService) RemoveLink(ctx context.Context, grantorID, granteeID uuid.UUID) error {
	if err := d.delegationRepo.DeleteLink(ctx, grantorID, granteeID); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func jsonOrEmpty(raw json.RawMessage, empty string) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON([]byte(empty))
	}
	return datatypes.JSON(raw)
}

func (d *DelegationService) AssignCaregiver(ctx context.Context, actorRole db_models.Role, request request_models.CaregiverAssignmentRequest) (*db_models.CaregiverAssignment, error) {
	if actorRole != db_models.RolePrimaryHolder {
		return nil, fmt.Errorf("%w: only primary account holders can manage caregivers", utils.ErrForbidden)
	}

	caregiverID, err := uuid.Parse(request.CaregiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid caregiver id", utils.ErrValidation)
	}
	patientID, err := uuid.Parse(request.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid patient id", utils.ErrValidation)
	}

	if caregiverID == patientID {
		return nil, utils.ErrSelfLink
	}

	caregiver, err := d.accountRepo.FindByID(ctx, caregiverID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if caregiver == nil {
		return nil, fmt.Errorf("%w: caregiver %s", utils.ErrAccountNotFound, caregiverID)
	}

	patient, err := d.accountRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if patient == nil {
		return nil, fmt.Errorf("%w: patient %s", utils.ErrAccountNotFound, patientID)
	}

	tasks, err := json.Marshal(request.Tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: tasks not serializable", utils.ErrValidation)
	}

	assignment := &db_models.CaregiverAssignment{
		CaregiverID:        caregiverID,
		PatientID:          patientID,
		Tasks:              datatypes.JSON(tasks),
		Schedule:           request.Schedule,
		EmergencyContact:   request.EmergencyContact,
		AppointmentHistory: jsonOrEmpty(request.AppointmentHistory, "{}"),
		MedicationTracking: jsonOrEmpty(request.MedicationTracking, "{}"),
		MonitoringData:     jsonOrEmpty(request.MonitoringData, "{}"),
		FinancialSupport:   jsonOrEmpty(request.FinancialSupport, "{}"),
	}

	if err := d.delegationRepo.InsertAssignment(ctx, assignment); err != nil {
		log.WithError(err).Error("caregiver assignment insert failed")
		return nil, utils.ErrDatabaseError
	}

	return assignment, nil
}

// ListPatientAssignments returns a patient's caregiver assignments. The caller
// must be the patient or hold a delegation link from them.
func (d *DelegationService) ListPatientAssignments(ctx context.Context, actorID, patientID uuid.UUID) ([]db_models.CaregiverAssignment, error) {
	ok, err := d.IsAuthorized(ctx, patientID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no delegation for this patient", utils.ErrForbidden)
	}

	assignments, err := d.delegationRepo.ListAssignmentsByPatient(ctx, patientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return assignments, nil
}

func (d *DelegationService) GetCaregiverProfile(ctx context.Context, accountID uuid.UUID) (*db_models.CaregiverProfile, error) {
	profile, err := d.accountRepo.FindCaregiverProfile(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: caregiver profile", utils.ErrNotFound)
	}
	return profile, nil
}
