package dbtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// Company inserts an active company.
func Company(tb testing.TB, gdb *gorm.DB, name string) *models.Company {
	tb.Helper()

	c := &models.Company{Name: name, IsActive: true}
	require.NoError(tb, gdb.Create(c).Error, "failed to seed company")

	return c
}

// User inserts an active user with the given id.
func User(tb testing.TB, gdb *gorm.DB, id uint64, username string) *models.User {
	tb.Helper()

	u := &models.User{ID: id, Username: username, Email: username + "@example.com", Active: true}
	require.NoError(tb, gdb.Create(u).Error, "failed to seed user")

	return u
}

// Role looks up a role of the company by name, a nil companyID returns the global role.
func Role(tb testing.TB, gdb *gorm.DB, companyID *uint, name string) *models.Role {
	tb.Helper()

	var role models.Role

	q := gdb.Where("name = ?", name)
	if companyID == nil {
		q = q.Where("company_id IS NULL")
	} else {
		q = q.Where("company_id = ?", *companyID)
	}

	require.NoError(tb, q.First(&role).Error, "role %q not found", name)

	return &role
}

// Permission looks up a catalogued permission.
func Permission(tb testing.TB, gdb *gorm.DB, resource, action string) *models.Permission {
	tb.Helper()

	var p models.Permission
	require.NoError(tb,
		gdb.Where("resource = ? AND action = ?", resource, action).First(&p).Error,
		"permission %s.%s not found", resource, action,
	)

	return &p
}

// Membership inserts an active membership of the user in the company.
func Membership(tb testing.TB, gdb *gorm.DB, userID uint64, companyID, roleID uint) *models.UserCompany {
	tb.Helper()

	uc := &models.UserCompany{
		UserID:    userID,
		CompanyID: companyID,
		RoleID:    roleID,
		IsActive:  true,
		JoinedAt:  time.Now().UTC(),
	}
	require.NoError(tb, gdb.Omit("User", "Company", "Role").Create(uc).Error, "failed to seed membership")

	return uc
}
