package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

const whereMembershipPermission = "user_company_id = ? AND permission_id = ?"

// UserOverrideRepository manages per-member permission overrides.
type UserOverrideRepository struct {
	db *gorm.DB
}

// Get retrieves the override of one permission for a membership.
func (r *UserOverrideRepository) Get(ctx context.Context, userCompanyID, permissionID uint) (*models.UserPermissionOverride, error) {
	var o models.UserPermissionOverride

	err := r.db.WithContext(ctx).
		Where(whereMembershipPermission, userCompanyID, permissionID).
		First(&o).Error
	if err != nil {
		return nil, translate(err, "override of permission %d for membership %d", permissionID, userCompanyID)
	}

	return &o, nil
}

// ListByMembership lists every override of the membership.
func (r *UserOverrideRepository) ListByMembership(ctx context.Context, userCompanyID uint) ([]models.UserPermissionOverride, error) {
	var rows []models.UserPermissionOverride

	err := r.db.WithContext(ctx).
		Where("user_company_id = ?", userCompanyID).
		Order("permission_id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "overrides of membership %d", userCompanyID)
	}

	return rows, nil
}

// Upsert writes the override, replacing an existing one for the same permission.
func (r *UserOverrideRepository) Upsert(ctx context.Context, o *models.UserPermissionOverride) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_company_id"}, {Name: "permission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"grant_type", "created_by", "reason", "updated_at"}),
		}).
		Omit(clause.Associations).
		Create(o).Error

	return translate(err, "override of permission %d for membership %d", o.PermissionID, o.UserCompanyID)
}

// Delete removes the override and returns how many rows were removed.
func (r *UserOverrideRepository) Delete(ctx context.Context, userCompanyID, permissionID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(whereMembershipPermission, userCompanyID, permissionID).
		Delete(&models.UserPermissionOverride{})
	if res.Error != nil {
		return 0, translate(res.Error, "override of permission %d for membership %d", permissionID, userCompanyID)
	}

	return res.RowsAffected, nil
}
