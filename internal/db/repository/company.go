package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// CompanyRepository reads companies.
type CompanyRepository struct {
	db *gorm.DB
}

// Get retrieves a company by its ID.
func (r *CompanyRepository) Get(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err, "company %d", id)
	}

	return &company, nil
}

// UserRepository reads users.
type UserRepository struct {
	db *gorm.DB
}

// Get retrieves a user by its ID.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user %d", id)
	}

	return &user, nil
}
