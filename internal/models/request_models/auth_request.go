package request_models

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`

	// Role defaults to FAMILY_MEMBER when empty. Matched case-insensitively.
	Role string `json:"role"`

	// Side-profile fields, required depending on role.
	Specialty        string `json:"specialty"`
	ContactInfo      string `json:"contact_info"`
	Location         string `json:"location"`
	AcceptsInsurance bool   `json:"accepts_insurance"`
	OnlineAvailable  bool   `json:"online_available"`
	CaregiverName    string `json:"caregiver_name"`
	CaregiverPhone   string `json:"caregiver_phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
