package models

import "time"

// UserCompany is a user's membership in a company, carrying the role assigned there.
// A user may belong to several companies, each with its own role and overrides.
type UserCompany struct {
	// ID is the unique identifier for the membership.
	ID uint `gorm:"primaryKey"`
	// UserID is the member.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_company"`
	// CompanyID is the company the user belongs to.
	CompanyID uint `gorm:"not null;uniqueIndex:idx_user_company"`
	// RoleID is the role assigned to the user within the company.
	RoleID uint `gorm:"not null"`
	// IsActive is false for suspended memberships; inactive members are denied everything.
	IsActive bool `gorm:"not null"`
	// JoinedAt is the timestamp when the membership was created.
	JoinedAt time.Time
	// UpdatedAt is the timestamp when the membership was last updated (managed by GORM).
	UpdatedAt time.Time

	// User is the associated user (enforced with a foreign key constraint).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Company is the associated company (enforced with a foreign key constraint).
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	// Role is the associated role. A referenced role can not be deleted (RESTRICT).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
}

// TableName specifies the database table name for the UserCompany model.
func (UserCompany) TableName() string {
	return "user_companies"
}
