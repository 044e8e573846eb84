package request_models

type UpdateAccountRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`

	// Silently dropped when the caller's current role is FAMILY_MEMBER.
	Role *string `json:"role"`
}

type RoleUpdateRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	NewRole string `json:"new_role" binding:"required"`
}
