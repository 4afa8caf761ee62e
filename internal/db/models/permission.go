package models

import "time"

// Permission represents a capability as a (resource, action) pair, e.g. ("work_hours", "approve").
// Permissions are defined globally and are never changed once a grant references them.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the unique permission identifier in resource.action format (e.g., "work_hours.approve").
	Name string `gorm:"unique;size:150;not null"`
	// Resource is the resource this permission applies to (e.g., "work_hours", "invoices").
	Resource string `gorm:"size:100;not null;uniqueIndex:idx_permission_resource_action"`
	// Action is the action allowed on the resource (e.g., "view", "approve").
	Action string `gorm:"size:50;not null;uniqueIndex:idx_permission_resource_action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// PermissionName joins resource and action into the canonical permission name.
func PermissionName(resource, action string) string {
	return resource + "." + action
}
