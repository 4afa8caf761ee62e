package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

const whereRoleID = "role_id = ?"

// RoleRepository manages roles.
type RoleRepository struct {
	db *gorm.DB
}

// Get retrieves a role by its ID.
func (r *RoleRepository) Get(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err, "role %d", id)
	}

	return &role, nil
}

// GetByName retrieves a role of the company by name; a nil companyID looks at global roles.
func (r *RoleRepository) GetByName(ctx context.Context, companyID *uint, name string) (*models.Role, error) {
	var role models.Role

	q := r.db.WithContext(ctx).Where("name = ?", name)
	if companyID == nil {
		q = q.Where("company_id IS NULL")
	} else {
		q = q.Where("company_id = ?", *companyID)
	}

	if err := q.First(&role).Error; err != nil {
		return nil, translate(err, "role %q", name)
	}

	return &role, nil
}

// ListByCompany lists the roles owned by the company, most senior first.
func (r *RoleRepository) ListByCompany(ctx context.Context, companyID uint) ([]models.Role, error) {
	var roles []models.Role

	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("hierarchy_level, id").
		Find(&roles).Error
	if err != nil {
		return nil, translate(err, "roles of company %d", companyID)
	}

	return roles, nil
}

// Create inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	return translate(r.db.WithContext(ctx).Create(role).Error, "role %q", role.Name)
}

// SetActive activates or deactivates a role.
func (r *RoleRepository) SetActive(ctx context.Context, id uint, active bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("id = ?", id).
		Update("is_active", active).Error

	return translate(err, "role %d", id)
}

// Delete removes a role and its default grants.
func (r *RoleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(whereRoleID, id).Delete(&models.RolePermission{}).Error; err != nil {
			return translate(err, "default grants of role %d", id)
		}

		res := tx.Delete(&models.Role{}, id)
		if res.Error != nil {
			return translate(res.Error, "role %d", id)
		}

		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "role %d", id)
		}

		return nil
	})
}

// References counts memberships, company customizations and templates using the role.
func (r *RoleRepository) References(ctx context.Context, id uint) (int64, error) {
	var total int64

	for _, m := range []any{&models.UserCompany{}, &models.CompanyRolePermission{}, &models.PermissionTemplate{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(m).Where(whereRoleID, id).Count(&count).Error; err != nil {
			return 0, translate(err, "references of role %d", id)
		}

		total += count
	}

	return total, nil
}

// RolePermissionRepository manages role default grants.
type RolePermissionRepository struct {
	db *gorm.DB
}

// Exists reports whether the role grants the permission by default.
func (r *RolePermissionRepository) Exists(ctx context.Context, roleID, permissionID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "default grant of role %d", roleID)
	}

	return count > 0, nil
}

// PermissionIDs lists the permissions the role grants by default.
func (r *RolePermissionRepository) PermissionIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint

	err := r.db.WithContext(ctx).
		Model(&models.RolePermission{}).
		Where(whereRoleID, roleID).
		Order("permission_id").
		Pluck("permission_id", &ids).Error
	if err != nil {
		return nil, translate(err, "default grants of role %d", roleID)
	}

	return ids, nil
}

// Add grants the permission to the role by default. Adding an existing grant is a no-op.
func (r *RolePermissionRepository) Add(ctx context.Context, roleID, permissionID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error

	return translate(err, "default grant of role %d", roleID)
}
