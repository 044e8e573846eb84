package db_models

import (
	"gorm.io/datatypes"
)

// Plan is a catalog entry mirrored from the billing provider. Rows are never
// hard-deleted, only deactivated.
type Plan struct {
	BaseModel
	Name        string `gorm:"not null"`
	Description string
	PriceUSD    float64 `gorm:"type:decimal(10,2);not null;default:0"`
	Currency    string  `gorm:"size:3;default:usd"`

	// Provider price id. Nil for free plans that exist purely locally; at most
	// one plan per non-null id.
	ExternalPriceID *string `gorm:"uniqueIndex"`

	Features datatypes.JSON `gorm:"default:'{}'"`
	IsActive bool           `gorm:"default:true"`
}
