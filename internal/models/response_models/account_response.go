package response_models

import "github.com/google/uuid"

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt int64     `json:"created_at"`
}

type TokenResponse struct {
	Token                 string `json:"token"`
	Role                  string `json:"role"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}

type RoleResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}
