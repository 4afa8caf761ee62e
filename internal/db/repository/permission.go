package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// PermissionRepository manages the permission catalog.
type PermissionRepository struct {
	db *gorm.DB
}

// Get retrieves a permission by its ID.
func (r *PermissionRepository) Get(ctx context.Context, id uint) (*models.Permission, error) {
	var p models.Permission
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "permission %d", id)
	}

	return &p, nil
}

// GetByResourceAction retrieves a permission by its (resource, action) pair.
func (r *PermissionRepository) GetByResourceAction(ctx context.Context, resource, action string) (*models.Permission, error) {
	var p models.Permission

	err := r.db.WithContext(ctx).
		Where("resource = ? AND action = ?", resource, action).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "permission %s", models.PermissionName(resource, action))
	}

	return &p, nil
}

// List returns every permission in catalog order.
func (r *PermissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Order("id").Find(&perms).Error; err != nil {
		return nil, translate(err, "permissions")
	}

	return perms, nil
}

// Ensure returns the stored permission for (resource, action), creating it from p when missing.
func (r *PermissionRepository) Ensure(ctx context.Context, p *models.Permission) (*models.Permission, error) {
	var stored models.Permission

	err := r.db.WithContext(ctx).
		Where(models.Permission{Resource: p.Resource, Action: p.Action}).
		Attrs(models.Permission{Name: p.Name, Description: p.Description}).
		FirstOrCreate(&stored).Error
	if err != nil {
		return nil, translate(err, "permission %s", p.Name)
	}

	return &stored, nil
}
