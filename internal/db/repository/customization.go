package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// CompanyRolePermissionRepository manages company customizations of role permissions.
type CompanyRolePermissionRepository struct {
	db *gorm.DB
}

// Get retrieves the customization of one permission for a company role.
func (r *CompanyRolePermissionRepository) Get(ctx context.Context, companyID, roleID, permissionID uint) (*models.CompanyRolePermission, error) {
	var crp models.CompanyRolePermission

	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role_id = ? AND permission_id = ?", companyID, roleID, permissionID).
		First(&crp).Error
	if err != nil {
		return nil, translate(err, "customization of permission %d for role %d in company %d", permissionID, roleID, companyID)
	}

	return &crp, nil
}

// ListByRole lists every customization the company made for the role.
func (r *CompanyRolePermissionRepository) ListByRole(ctx context.Context, companyID, roleID uint) ([]models.CompanyRolePermission, error) {
	var rows []models.CompanyRolePermission

	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role_id = ?", companyID, roleID).
		Order("permission_id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "customizations of role %d in company %d", roleID, companyID)
	}

	return rows, nil
}

// Upsert writes the customization, replacing an existing row for the same
// (company, role, permission).
func (r *CompanyRolePermissionRepository) Upsert(ctx context.Context, crp *models.CompanyRolePermission) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "role_id"}, {Name: "permission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_granted", "customized_by", "customized_at", "notes",
			}),
		}).
		Omit(clause.Associations).
		Create(crp).Error

	return translate(err, "customization of permission %d for role %d", crp.PermissionID, crp.RoleID)
}

// DeleteByRole removes all customizations of the role in the company and returns how many were removed.
func (r *CompanyRolePermissionRepository) DeleteByRole(ctx context.Context, companyID, roleID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND role_id = ?", companyID, roleID).
		Delete(&models.CompanyRolePermission{})
	if res.Error != nil {
		return 0, translate(res.Error, "customizations of role %d in company %d", roleID, companyID)
	}

	return res.RowsAffected, nil
}
