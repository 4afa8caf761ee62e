package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// MembershipRepository manages user memberships in companies.
type MembershipRepository struct {
	db *gorm.DB
}

// Get retrieves a membership by its ID.
func (r *MembershipRepository) Get(ctx context.Context, id uint) (*models.UserCompany, error) {
	var uc models.UserCompany
	if err := r.db.WithContext(ctx).First(&uc, id).Error; err != nil {
		return nil, translate(err, "membership %d", id)
	}

	return &uc, nil
}

// GetByUserCompany retrieves the membership of a user in a company.
func (r *MembershipRepository) GetByUserCompany(ctx context.Context, userID uint64, companyID uint) (*models.UserCompany, error) {
	var uc models.UserCompany

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&uc).Error
	if err != nil {
		return nil, translate(err, "membership of user %d in company %d", userID, companyID)
	}

	return &uc, nil
}

// Create inserts a new membership.
func (r *MembershipRepository) Create(ctx context.Context, uc *models.UserCompany) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(uc).Error

	return translate(err, "membership of user %d in company %d", uc.UserID, uc.CompanyID)
}

// SetRole assigns a different role to the membership. Callers skip the update when
// the role is unchanged, MySQL reports no affected rows for it.
func (r *MembershipRepository) SetRole(ctx context.Context, id, roleID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserCompany{}).
		Where("id = ?", id).
		Update("role_id", roleID)
	if res.Error != nil {
		return translate(res.Error, "membership %d", id)
	}

	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "membership %d", id)
	}

	return nil
}

// CountByCompany counts the memberships of a company, active or not.
func (r *MembershipRepository) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	var n int64

	err := r.db.WithContext(ctx).
		Model(&models.UserCompany{}).
		Where("company_id = ?", companyID).
		Count(&n).Error
	if err != nil {
		return 0, translate(err, "memberships of company %d", companyID)
	}

	return n, nil
}
