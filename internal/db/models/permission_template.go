package models

import "time"

// PermissionTemplate is a reusable bundle of permission grants that can be applied
// to a role within a company. Applying it writes company customizations.
type PermissionTemplate struct {
	// ID is the unique identifier for the template.
	ID uint `gorm:"primaryKey"`
	// CompanyID is the owning company, nil for templates shared by all companies.
	CompanyID *uint `gorm:"index"`
	// RoleID optionally names the role the template was designed for.
	// A referenced role can not be deleted (RESTRICT).
	RoleID *uint
	// Name is the display name of the template.
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable explanation of the template.
	Description string `gorm:"size:255"`
	// IsActive hides retired templates from being applied.
	IsActive bool `gorm:"not null"`
	// CreatedBy is the user who created the template.
	CreatedBy uint64
	// Items are the grants carried by the template.
	Items []PermissionTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	// Role is the suggested role (loaded via foreign key).
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	// CreatedAt is the timestamp when the template was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the template was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PermissionTemplate model.
func (PermissionTemplate) TableName() string {
	return "permission_templates"
}

// PermissionTemplateItem is one (permission, is_granted) pair of a template.
// PermissionID is validated when the template is applied, not when it is stored.
type PermissionTemplateItem struct {
	ID           uint `gorm:"primaryKey"`
	TemplateID   uint `gorm:"not null;index"`
	PermissionID uint `gorm:"not null"`
	IsGranted    bool `gorm:"not null"`
}

// TableName specifies the database table name for the PermissionTemplateItem model.
func (PermissionTemplateItem) TableName() string {
	return "permission_template_items"
}
