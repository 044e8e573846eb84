package db_models

import "github.com/google/uuid"

const (
	PermissionRead   = "read"
	PermissionManage = "manage"
)

// FamilyLink grants the grantee access over the grantor's records. The grantor
// always has implicit full access to their own data, so no self-link row ever
// exists.
type FamilyLink struct {
	BaseModel
	GrantorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_family_links_pair,priority:1"`
	GranteeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_family_links_pair,priority:2"`
	RelationType string    `gorm:"not null"` // e.g. "father", "daughter", "partner"
	Permission   string    `gorm:"default:read"`
}
