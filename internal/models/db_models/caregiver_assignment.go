package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CaregiverAssignment is the richer delegation channel for the caregiver
// relationship: it carries the caregiving context, not just an access grant.
type CaregiverAssignment struct {
	BaseModel
	CaregiverID uuid.UUID `gorm:"type:uuid;not null;index"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Tasks            datatypes.JSON `gorm:"default:'[]'"`
	Schedule         string
	EmergencyContact string

	AppointmentHistory datatypes.JSON `gorm:"default:'{}'"`
	MedicationTracking datatypes.JSON `gorm:"default:'{}'"`
	MonitoringData     datatypes.JSON `gorm:"default:'{}'"`
	FinancialSupport   datatypes.JSON `gorm:"default:'{}'"`
}
