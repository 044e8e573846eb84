package db_models

import "github.com/google/uuid"

// Side profiles are the role-specific extension records created in the same
// transaction as the account. An account whose role mandates one of these must
// never be visible without it.

type PractitionerProfile struct {
	BaseModel
	AccountID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Specialty   string    `gorm:"not null"`
	ContactInfo string
}

type CaregiverProfile struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Phone     string
}

type ProfessionalProfile struct {
	BaseModel
	AccountID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Specialty        string    `gorm:"not null"`
	Location         string    `gorm:"not null"`
	AcceptsInsurance bool      `gorm:"default:false"`
	OnlineAvailable  bool      `gorm:"default:false"`
}
