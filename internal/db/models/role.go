package models

import "time"

// Role represents a named grouping of permissions.
// A role with a nil CompanyID is a global template role visible to every company;
// provisioning copies the global system roles into each new company.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// CompanyID is the owning company, nil for global template roles.
	CompanyID *uint `gorm:"uniqueIndex:idx_role_company_name"`
	// Name is the role name, unique within its company (e.g., "owner", "worker").
	Name string `gorm:"size:100;not null;uniqueIndex:idx_role_company_name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// HierarchyLevel orders roles for display, lower is more senior.
	// It plays no part in permission resolution.
	HierarchyLevel int `gorm:"not null"`
	// IsSystem marks built-in roles created from the catalog.
	IsSystem bool `gorm:"not null"`
	// IsActive is cleared instead of deleting a role that is still referenced.
	IsActive bool `gorm:"not null"`
	// CreatedBy is the user who created the role, zero for seeded roles.
	CreatedBy uint64
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// VisibleTo reports whether the role can be used inside the given company.
func (r *Role) VisibleTo(companyID uint) bool {
	return r.CompanyID == nil || *r.CompanyID == companyID
}
