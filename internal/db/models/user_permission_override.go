package models

import "time"

// GrantType is the direction of a user permission override.
type GrantType string

const (
	// GrantTypeGrant forces the permission on for the member.
	GrantTypeGrant GrantType = "grant"
	// GrantTypeRevoke forces the permission off for the member.
	GrantTypeRevoke GrantType = "revoke"
)

// Granted reports whether the grant type allows the permission.
func (g GrantType) Granted() bool {
	return g == GrantTypeGrant
}

// UserPermissionOverride grants or revokes one permission for one membership,
// taking precedence over both the role default and the company customization.
type UserPermissionOverride struct {
	ID            uint      `gorm:"primaryKey"`
	UserCompanyID uint      `gorm:"not null;uniqueIndex:idx_user_company_permission"`
	PermissionID  uint      `gorm:"not null;uniqueIndex:idx_user_company_permission"`
	GrantType     GrantType `gorm:"type:varchar(10);not null"`
	CreatedBy     uint64
	Reason        string `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	UserCompany UserCompany `gorm:"foreignKey:UserCompanyID;constraint:OnDelete:CASCADE"`
	Permission  Permission  `gorm:"foreignKey:PermissionID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the database table name for the UserPermissionOverride model.
func (UserPermissionOverride) TableName() string {
	return "user_permission_overrides"
}
