package models

import "time"

// ChangeAction is the kind of permission mutation recorded in the change log.
type ChangeAction string

const (
	// ChangeActionGrant records a write that grants a permission.
	ChangeActionGrant ChangeAction = "grant"
	// ChangeActionRevoke records a write that revokes a permission.
	ChangeActionRevoke ChangeAction = "revoke"
	// ChangeActionReset records the removal of a customization or override.
	ChangeActionReset ChangeAction = "reset"
)

// ChangeScope tells which grant layer a change log entry belongs to.
type ChangeScope string

const (
	// ChangeScopeRole marks company level customizations of a role.
	ChangeScopeRole ChangeScope = "role"
	// ChangeScopeUser marks per-member overrides.
	ChangeScopeUser ChangeScope = "user"
)

// PermissionChangeLog is an immutable audit entry. PreviousState and NewState are
// captured when the change is written so history never depends on current state.
type PermissionChangeLog struct {
	ID            uint         `gorm:"primaryKey"`
	CompanyID     uint         `gorm:"not null;index"`
	Scope         ChangeScope  `gorm:"type:varchar(10);not null"`
	RoleID        *uint        `gorm:"index"`
	UserCompanyID *uint        `gorm:"index"`
	PermissionID  uint         `gorm:"not null;index"`
	Action        ChangeAction `gorm:"type:varchar(10);not null"`
	PreviousState bool         `gorm:"not null"`
	NewState      bool         `gorm:"not null"`
	ChangedBy     uint64       `gorm:"not null"`
	Reason        string       `gorm:"size:500"`
	// BatchID groups the entries written by one reset or template application.
	BatchID   string    `gorm:"size:36;index"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the PermissionChangeLog model.
func (PermissionChangeLog) TableName() string {
	return "permission_change_logs"
}
