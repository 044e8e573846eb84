package response_models

import "github.com/google/uuid"

type FamilyLinkResponse struct {
	ID             uuid.UUID `json:"id"`
	GrantorID      uuid.UUID `json:"user_id"`
	GranteeID      uuid.UUID `json:"family_member_id"`
	RelationType   string    `json:"relation_type"`
	Permission     string    `json:"permission"`
	AlreadyExisted bool      `json:"already_existed,omitempty"`
}

type CaregiverAssignmentResponse struct {
	ID          uuid.UUID `json:"id"`
	CaregiverID uuid.UUID `json:"caregiver_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Tasks       []string  `json:"tasks"`
	Message     string    `json:"message"`
}

type CaregiverProfileResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
}
