package models

import "time"

// Company represents a tenant. Every role assignment, customization and
// override is scoped to exactly one company.
type Company struct {
	// ID is the unique identifier for the company.
	ID uint `gorm:"primaryKey"`
	// Name is the unique display name of the company.
	Name string `gorm:"unique;size:150;not null"`
	// IsActive marks whether the company can still be provisioned and managed.
	IsActive bool `gorm:"not null"`
	// CreatedAt is the timestamp when the company was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the company was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Company model.
func (Company) TableName() string {
	return "companies"
}
