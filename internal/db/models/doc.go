// Package models contains the gorm model definitions of the permission core:
// companies, users and their memberships, roles, permissions, the three
// grant layers (role defaults, company customizations, user overrides),
// permission templates and the append-only change log.
package models
