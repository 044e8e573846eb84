package db_models

import "strings"

// Role is the closed set of account roles. The value is stored as-is, so every
// member must match the uppercase form exactly.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RolePrimaryHolder Role = "PRIMARY_HOLDER"
	RoleFamilyMember  Role = "FAMILY_MEMBER"
	RolePractitioner  Role = "PRACTITIONER"
	RoleCaregiver     Role = "CAREGIVER"
	RoleProfessional  Role = "PROFESSIONAL"
)

// ParseRole normalizes case before matching against the closed enumeration.
// There is no fallback construction: anything unrecognized reports ok=false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RolePrimaryHolder:
		return RolePrimaryHolder, true
	case RoleFamilyMember:
		return RoleFamilyMember, true
	case RolePractitioner:
		return RolePractitioner, true
	case RoleCaregiver:
		return RoleCaregiver, true
	case RoleProfessional:
		return RoleProfessional, true
	}
	return "", false
}

type Account struct {
	BaseModel
	FullName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"default:true"`
	Role         Role   `gorm:"type:varchar(32);not null;index"`

	// Customer id minted at the billing provider during registration. Nullable
	// only for rows predating billing onboarding.
	BillingCustomerID *string `gorm:"uniqueIndex"`
}
