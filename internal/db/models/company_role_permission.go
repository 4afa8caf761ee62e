package models

import "time"

// CompanyRolePermission records that a company explicitly granted or revoked a permission
// for one of its roles, overriding the role default in either direction.
// There is at most one row per (company, role, permission); writes are upserts.
type CompanyRolePermission struct {
	ID           uint `gorm:"primaryKey"`
	CompanyID    uint `gorm:"not null;uniqueIndex:idx_company_role_permission"`
	RoleID       uint `gorm:"not null;uniqueIndex:idx_company_role_permission"`
	PermissionID uint `gorm:"not null;uniqueIndex:idx_company_role_permission"`
	// IsGranted is the customized value. It has no column default so that false is written.
	IsGranted    bool `gorm:"not null"`
	CustomizedBy uint64
	CustomizedAt time.Time
	Notes        string `gorm:"size:500"`

	Company    Company    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Role       Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the database table name for the CompanyRolePermission model.
func (CompanyRolePermission) TableName() string {
	return "company_role_permissions"
}
