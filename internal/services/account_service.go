package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"carelink/internal/models/db_models"
	"carelink/internal/models/request_models"
	"carelink/internal/models/response_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error)
	Login(ctx context.Context, request request_models.LoginRequest) (response_models.TokenResponse, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error)
	ListActiveAccounts(ctx context.Context) ([]response_models.AccountResponse, error)
	UpdateAccount(ctx context.Context, accountID uuid.UUID, patch request_models.UpdateAccountRequest) (*db_models.Account, error)
	UpdateRole(ctx context.Context, actorRole db_models.Role, targetID uuid.UUID, newRole string) (*db_models.Account, error)
}

type AccountService struct {
	db          *gorm.DB
	accountRepo repositories.AccountRepository
	subRepo     repositories.ISubscriptionRepository
	billing     BillingClient
}

func NewAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	subRepo repositories.ISubscriptionRepository,
	billing BillingClient,
) AccountServiceInterface {
	return &AccountService{
		db:          db,
		accountRepo: accountRepo,
		subRepo:     subRepo,
		billing:     billing,
	}
}

// sideProfileFor validates the role-specific registration fields and builds the
// side-profile row. Returns nil for roles without one.
func sideProfileFor(role db_models.Role, request request_models.SignUpRequest) (interface{}, error) {
	switch role {
	case db_models.RolePractitioner:
		if request.Specialty == "" {
			return nil, fmt.Errorf("%w: practitioner specialty is required", utils.ErrValidation)
		}
		return &db_models.PractitionerProfile{
			Specialty:   request.Specialty,
			ContactInfo: request.ContactInfo,
		}, nil
	case db_models.RoleProfessional:
		if request.Specialty == "" || request.Location == "" {
			return nil, fmt.Errorf("%w: professional specialty and location are required", utils.ErrValidation)
		}
		return &db_models.ProfessionalProfile{
			Specialty:        request.Specialty,
			Location:         request.Location,
			AcceptsInsurance: request.AcceptsInsurance,
			OnlineAvailable:  request.OnlineAvailable,
		}, nil
	case db_models.RoleCaregiver:
		if request.CaregiverName == "" {
			return nil, fmt.Errorf("%w: caregiver name is required", utils.ErrValidation)
		}
		return &db_models.CaregiverProfile{
			Name:  request.CaregiverName,
			Phone: request.CaregiverPhone,
		}, nil
	}
	return nil, nil
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error) {

	roleInput := request.Role
	if roleInput == "" {
		roleInput = string(db_models.RoleFamilyMember)
	}
	role, ok := db_models.ParseRole(roleInput)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidRole, request.Role)
	}

	profile, err := sideProfileFor(role, request)
	if err != nil {
		return nil, err
	}

	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	// Mint the billing customer before touching local state: an account must
	// never exist with a missing or stale billing customer id.
	customerID, err := a.billing.CreateCustomer(ctx, request.Email, request.FullName, map[string]string{
		"role": string(role),
	})
	if err != nil {
		log.WithError(err).WithField("email", request.Email).Warn("billing customer creation failed")
		return nil, utils.ErrDependency
	}

	newAccount := &db_models.Account{
		FullName:          request.FullName,
		Email:             request.Email,
		PasswordHash:      hashedPassword,
		IsActive:          true,
		Role:              role,
		BillingCustomerID: &customerID,
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newAccount).Error; err != nil {
			return err
		}
		switch p := profile.(type) {
		case *db_models.PractitionerProfile:
			p.AccountID = newAccount.ID
			return tx.Create(p).Error
		case *db_models.ProfessionalProfile:
			p.AccountID = newAccount.ID
			return tx.Create(p).Error
		case *db_models.CaregiverProfile:
			p.AccountID = newAccount.ID
			return tx.Create(p).Error
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("account registration failed")
		return nil, utils.ErrDatabaseError
	}

	return newAccount, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (response_models.TokenResponse, error) {

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return response_models.TokenResponse{}, utils.ErrDatabaseError
	}
	if account == nil || !account.IsActive {
		return response_models.TokenResponse{}, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return response_models.TokenResponse{}, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, string(account.Role))
	if err != nil {
		return response_models.TokenResponse{}, utils.ErrInvalidCredentials
	}

	sub, err := a.subRepo.FindByAccountID(ctx, account.ID)
	if err != nil {
		return response_models.TokenResponse{}, utils.ErrDatabaseError
	}

	return response_models.TokenResponse{
		Token:                 token,
		Role:                  string(account.Role),
		HasActiveSubscription: sub != nil && sub.Status == db_models.SubStatusActive,
	}, nil
}

func (a *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error) {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (a *AccountService) ListActiveAccounts(ctx context.Context) ([]response_models.AccountResponse, error) {
	accounts, err := a.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, response_models.AccountResponse{
			ID:        account.ID,
			Email:     account.Email,
			FullName:  account.FullName,
			Role:      string(account.Role),
			IsActive:  account.IsActive,
			CreatedAt: account.CreatedAt,
		})
	}
	return result, nil
}

func (a *AccountService) UpdateAccount(ctx context.Context, accountID uuid.UUID, patch request_models.UpdateAccountRequest) (*db_models.Account, error) {
	account, err := a.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		account.FullName = *patch.FullName
	}
	if patch.Email != nil {
		account.Email = *patch.Email
	}
	if patch.Role != nil {
		// The lowest-trust role cannot change its own role at all; the patch
		// field is dropped rather than rejected.
		if account.Role == db_models.RoleFamilyMember {
			log.WithField("account_id", accountID).Debug("role patch dropped for family member")
		} else {
			role, ok := db_models.ParseRole(*patch.Role)
			if !ok {
				return nil, fmt.Errorf("%w: %q", utils.ErrInvalidRole, *patch.Role)
			}
			account.Role = role
		}
	}

	if err := a.accountRepo.Update(ctx, account); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return account, nil
}

func (a *AccountService) UpdateRole(ctx context.Context, actorRole db_models.Role, targetID uuid.UUID, newRole string) (*db_models.Account, error) {
	if actorRole != db_models.RolePrimaryHolder {
		return nil, fmt.Errorf("%w: only primary account holders can update roles", utils.ErrForbidden)
	}

	role, ok := db_models.ParseRole(newRole)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidRole, newRole)
	}

	account, err := a.GetAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	account.Role = role
	if err := a.accountRepo.Update(ctx, account); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return account, nil
}
