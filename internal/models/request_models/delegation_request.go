package request_models

import "encoding/json"

type FamilyLinkRequest struct {
	GranteeID    string `json:"family_member_id" binding:"required"`
	RelationType string `json:"relation_type" binding:"required"`
	Permission   string `json:"permission"` // defaults to "read"
}

type CaregiverAssignmentRequest struct {
	CaregiverID      string   `json:"caregiver_id" binding:"required"`
	PatientID        string   `json:"patient_id" binding:"required"`
	Tasks            []string `json:"tasks"`
	Schedule         string   `json:"schedule"`
	EmergencyContact string   `json:"emergency_contact"`

	AppointmentHistory json.RawMessage `json:"appointment_history"`
	MedicationTracking json.RawMessage `json:"medication_tracking"`
	MonitoringData     json.RawMessage `json:"monitoring_data"`
	FinancialSupport   json.RawMessage `json:"financial_support"`
}
