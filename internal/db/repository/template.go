package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// TemplateRepository reads permission templates.
type TemplateRepository struct {
	db *gorm.DB
}

// Get retrieves a template with its items.
func (r *TemplateRepository) Get(ctx context.Context, id uint) (*models.PermissionTemplate, error) {
	var tpl models.PermissionTemplate

	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&tpl, id).Error
	if err != nil {
		return nil, translate(err, "template %d", id)
	}

	return &tpl, nil
}
