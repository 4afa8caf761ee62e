package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/permission"
)

// Store gives access to all repositories on one database handle.
type Store struct {
	db *gorm.DB
}

var _ permission.Store = (*Store)(nil)

// New creates a Store on db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

// Companies returns the company repository.
func (s *Store) Companies() permission.CompanyRepository { return &CompanyRepository{db: s.db} }

// Users returns the user repository.
func (s *Store) Users() permission.UserRepository { return &UserRepository{db: s.db} }

// Permissions returns the permission repository.
func (s *Store) Permissions() permission.PermissionRepository { return &PermissionRepository{db: s.db} }

// Roles returns the role repository.
func (s *Store) Roles() permission.RoleRepository { return &RoleRepository{db: s.db} }

// RolePermissions returns the role default grant repository.
func (s *Store) RolePermissions() permission.RolePermissionRepository {
	return &RolePermissionRepository{db: s.db}
}

// CompanyRolePermissions returns the company customization repository.
func (s *Store) CompanyRolePermissions() permission.CompanyRolePermissionRepository {
	return &CompanyRolePermissionRepository{db: s.db}
}

// Memberships returns the membership repository.
func (s *Store) Memberships() permission.MembershipRepository { return &MembershipRepository{db: s.db} }

// UserOverrides returns the user override repository.
func (s *Store) UserOverrides() permission.UserOverrideRepository {
	return &UserOverrideRepository{db: s.db}
}

// Templates returns the permission template repository.
func (s *Store) Templates() permission.TemplateRepository { return &TemplateRepository{db: s.db} }

// ChangeLog returns the append-only change log repository.
func (s *Store) ChangeLog() permission.ChangeLogRepository { return &ChangeLogRepository{db: s.db} }

// Transaction runs fn inside a database transaction. Called on a Store that is
// already inside a transaction, gorm uses a savepoint.
func (s *Store) Transaction(ctx context.Context, fn func(tx permission.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
