package permission

import (
	"context"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// Store is the data access handle the permission core runs on. Each accessor returns a
// typed repository for one entity; lookups that find nothing return an error wrapping
// ErrNotFound.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Permissions() PermissionRepository
	Roles() RoleRepository
	RolePermissions() RolePermissionRepository
	CompanyRolePermissions() CompanyRolePermissionRepository
	Memberships() MembershipRepository
	UserOverrides() UserOverrideRepository
	Templates() TemplateRepository
	ChangeLog() ChangeLogRepository

	// Transaction runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// CompanyRepository reads companies.
type CompanyRepository interface {
	Get(ctx context.Context, id uint) (*models.Company, error)
}

// UserRepository reads users.
type UserRepository interface {
	Get(ctx context.Context, id uint64) (*models.User, error)
}

// PermissionRepository manages the global permission catalog.
type PermissionRepository interface {
	Get(ctx context.Context, id uint) (*models.Permission, error)
	GetByResourceAction(ctx context.Context, resource, action string) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	// Ensure creates the permission unless (resource, action) already exists and
	// returns the stored row.
	Ensure(ctx context.Context, p *models.Permission) (*models.Permission, error)
}

// RoleRepository manages roles.
type RoleRepository interface {
	Get(ctx context.Context, id uint) (*models.Role, error)
	// GetByName looks up a role by name; a nil companyID targets the global roles.
	GetByName(ctx context.Context, companyID *uint, name string) (*models.Role, error)
	ListByCompany(ctx context.Context, companyID uint) ([]models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	// References counts memberships, customizations and templates pointing at the role.
	References(ctx context.Context, id uint) (int64, error)
}

// RolePermissionRepository manages role default grants.
type RolePermissionRepository interface {
	Exists(ctx context.Context, roleID, permissionID uint) (bool, error)
	PermissionIDs(ctx context.Context, roleID uint) ([]uint, error)
	Add(ctx context.Context, roleID, permissionID uint) error
}

// CompanyRolePermissionRepository manages company level customizations.
type CompanyRolePermissionRepository interface {
	Get(ctx context.Context, companyID, roleID, permissionID uint) (*models.CompanyRolePermission, error)
	ListByRole(ctx context.Context, companyID, roleID uint) ([]models.CompanyRolePermission, error)
	// Upsert inserts the row or updates the existing (company, role, permission) row.
	Upsert(ctx context.Context, crp *models.CompanyRolePermission) error
	DeleteByRole(ctx context.Context, companyID, roleID uint) (int64, error)
}

// MembershipRepository manages user to company memberships.
type MembershipRepository interface {
	Get(ctx context.Context, id uint) (*models.UserCompany, error)
	GetByUserCompany(ctx context.Context, userID uint64, companyID uint) (*models.UserCompany, error)
	Create(ctx context.Context, uc *models.UserCompany) error
	SetRole(ctx context.Context, id, roleID uint) error
	CountByCompany(ctx context.Context, companyID uint) (int64, error)
}

// UserOverrideRepository manages per-member overrides.
type UserOverrideRepository interface {
	Get(ctx context.Context, userCompanyID, permissionID uint) (*models.UserPermissionOverride, error)
	ListByMembership(ctx context.Context, userCompanyID uint) ([]models.UserPermissionOverride, error)
	Upsert(ctx context.Context, o *models.UserPermissionOverride) error
	Delete(ctx context.Context, userCompanyID, permissionID uint) (int64, error)
}

// TemplateRepository reads permission templates with their items.
type TemplateRepository interface {
	Get(ctx context.Context, id uint) (*models.PermissionTemplate, error)
}

// ChangeLogRepository is append-only: entries can be added and listed, never changed.
type ChangeLogRepository interface {
	Append(ctx context.Context, entry *models.PermissionChangeLog) error
	List(ctx context.Context, filter ChangeFilter) ([]models.PermissionChangeLog, error)
}

// ChangeFilter narrows a change log listing. Zero fields do not filter.
type ChangeFilter struct {
	CompanyID     uint
	RoleID        uint
	UserCompanyID uint
	PermissionID  uint
	BatchID       string
	Limit         int
}
