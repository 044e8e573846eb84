package db_models

import (
	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive     SubscriptionStatus = "active"
	SubStatusPastDue    SubscriptionStatus = "past_due"
	SubStatusCanceled   SubscriptionStatus = "canceled"
	SubStatusIncomplete SubscriptionStatus = "incomplete"
)

// ParseSubscriptionStatus maps a provider-reported status onto the local enum.
// Anything unknown lands on incomplete; the provider remains the source of
// truth and will re-report on its next event.
func ParseSubscriptionStatus(s string) SubscriptionStatus {
	switch SubscriptionStatus(s) {
	case SubStatusActive, SubStatusPastDue, SubStatusCanceled, SubStatusIncomplete:
		return SubscriptionStatus(s)
	}
	return SubStatusIncomplete
}

// Subscription binds one account to one plan. The unique index on account_id is
// what makes "at most one row per account" hold under concurrent plan changes.
type Subscription struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PlanID    uuid.UUID `gorm:"type:uuid;index;not null"`

	// Provider subscription id. Nil for free plans with no provider counterpart.
	ExternalSubscriptionID *string `gorm:"uniqueIndex"`

	Status    SubscriptionStatus `gorm:"type:varchar(32);index;not null"`
	StartedAt int64              `gorm:"not null"`
	EndedAt   *int64
}
