package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

// ChangeLogRepository appends to and reads the permission change log.
// It has no update or delete operations.
type ChangeLogRepository struct {
	db *gorm.DB
}

// Append inserts a new change log entry.
func (r *ChangeLogRepository) Append(ctx context.Context, entry *models.PermissionChangeLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "change log entry")
}

// List returns the entries matching the filter, newest first.
func (r *ChangeLogRepository) List(ctx context.Context, filter permission.ChangeFilter) ([]models.PermissionChangeLog, error) {
	q := r.db.WithContext(ctx).Model(&models.PermissionChangeLog{})

	if filter.CompanyID != 0 {
		q = q.Where("company_id = ?", filter.CompanyID)
	}

	if filter.RoleID != 0 {
		q = q.Where("role_id = ?", filter.RoleID)
	}

	if filter.UserCompanyID != 0 {
		q = q.Where("user_company_id = ?", filter.UserCompanyID)
	}

	if filter.PermissionID != 0 {
		q = q.Where("permission_id = ?", filter.PermissionID)
	}

	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var entries []models.PermissionChangeLog
	if err := q.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, translate(err, "change log")
	}

	return entries, nil
}
