package permission_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/db/dbtest"
	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/db/repository"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

const ownerID uint64 = 1

// fixture is a provisioned company with its owner as member.
type fixture struct {
	ctx     context.Context
	gdb     *gorm.DB
	store   *repository.Store
	svc     *permission.Service
	company *models.Company
}

func newFixture(t *testing.T, opts ...permission.Option) *fixture {
	t.Helper()

	store, gdb := dbtest.Store(t)

	svc, err := permission.NewService(store, opts...)
	require.NoError(t, err)

	f := &fixture{
		ctx:     context.Background(),
		gdb:     gdb,
		store:   store,
		svc:     svc,
		company: dbtest.Company(t, gdb, "Acme Builders"),
	}

	dbtest.User(t, gdb, ownerID, "owner")

	res, err := svc.CreateDefaultRoles(f.ctx, f.company.ID, ownerID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	return f
}

// addCompany provisions another company owned by the same owner.
func (f *fixture) addCompany(t *testing.T, name string) *models.Company {
	t.Helper()

	c := dbtest.Company(t, f.gdb, name)

	res, err := f.svc.CreateDefaultRoles(f.ctx, c.ID, ownerID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	return c
}

func (f *fixture) role(t *testing.T, companyID uint, name string) *models.Role {
	t.Helper()

	return dbtest.Role(t, f.gdb, &companyID, name)
}

func (f *fixture) perm(t *testing.T, resource, action string) *models.Permission {
	t.Helper()

	return dbtest.Permission(t, f.gdb, resource, action)
}

// member creates the user if needed and makes them a member of the company with the named role.
func (f *fixture) member(t *testing.T, userID uint64, companyID uint, roleName string) *models.UserCompany {
	t.Helper()

	var count int64
	require.NoError(t, f.gdb.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error)

	if count == 0 {
		dbtest.User(t, f.gdb, userID, "user-"+strconv.FormatUint(userID, 10))
	}

	return dbtest.Membership(t, f.gdb, userID, companyID, f.role(t, companyID, roleName).ID)
}

func (f *fixture) has(t *testing.T, userID uint64, companyID uint, resource, action string) bool {
	t.Helper()

	ok, err := f.svc.HasPermission(f.ctx, userID, companyID, resource, action)
	require.NoError(t, err)

	return ok
}

func (f *fixture) changes(t *testing.T, filter permission.ChangeFilter) []models.PermissionChangeLog {
	t.Helper()

	entries, err := f.svc.AuditLog().History(f.ctx, filter)
	require.NoError(t, err)

	return entries
}

func (f *fixture) customizations(t *testing.T, companyID, roleID uint) []models.CompanyRolePermission {
	t.Helper()

	rows, err := f.store.CompanyRolePermissions().ListByRole(f.ctx, companyID, roleID)
	require.NoError(t, err)

	return rows
}
