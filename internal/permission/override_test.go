package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

func TestUpdateUserPermissionOverrideRefusals(t *testing.T) {
	f := newFixture(t)
	other := f.addCompany(t, "Other Builders")

	const workerID, outsiderOwner uint64 = 10, 11

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	f.member(t, outsiderOwner, other.ID, permission.RoleOwner)

	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)

	testCases := []struct {
		name          string
		change        permission.UserOverrideChange
		expectedError error
	}{
		{
			name:          "unknown grant type",
			change:        permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: "maybe", ChangedBy: ownerID},
			expectedError: permission.ErrValidation,
		},
		{
			name:          "missing membership id",
			change:        permission.UserOverrideChange{PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID},
			expectedError: permission.ErrValidation,
		},
		{
			name:          "unknown membership",
			change:        permission.UserOverrideChange{UserCompanyID: 999, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID},
			expectedError: permission.ErrNotFound,
		},
		{
			name:          "unknown permission",
			change:        permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: 999, GrantType: models.GrantTypeGrant, ChangedBy: ownerID},
			expectedError: permission.ErrNotFound,
		},
		{
			name:          "members can not grant themselves",
			change:        permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: workerID},
			expectedError: permission.ErrUnauthorized,
		},
		{
			name:          "owner of another company",
			change:        permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: outsiderOwner},
			expectedError: permission.ErrUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.svc.UpdateUserPermissionOverride(f.ctx, tc.change)
			require.NoError(t, err)
			require.ErrorIs(t, res.Err, tc.expectedError)
		})
	}

	assert.False(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))
	assert.Empty(t, f.changes(t, permission.ChangeFilter{UserCompanyID: uc.ID}))
}

func TestUpdateUserPermissionOverrideClear(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 10

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)

	// clearing an override that does not exist is a no-op without a log entry
	res, err := f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())
	assert.Empty(t, res.Changes)
	assert.Empty(t, f.changes(t, permission.ChangeFilter{UserCompanyID: uc.ID}))

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, ChangedBy: ownerID, Reason: "back to role",
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())
	require.Len(t, res.Changes, 1)

	entries := f.changes(t, permission.ChangeFilter{UserCompanyID: uc.ID})
	require.Len(t, entries, 2)

	cleared := entries[0]
	assert.Equal(t, models.ChangeActionReset, cleared.Action)
	assert.Equal(t, models.ChangeScopeUser, cleared.Scope)
	assert.True(t, cleared.PreviousState)
	assert.False(t, cleared.NewState)
	assert.Nil(t, cleared.RoleID)

	_, err = f.store.UserOverrides().Get(f.ctx, uc.ID, approve.ID)
	require.ErrorIs(t, err, permission.ErrNotFound)
}

func TestAuditCompleteness(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 10

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	worker := f.role(t, f.company.ID, permission.RoleWorker)
	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)
	logHours := f.perm(t, permission.ResourceWorkHours, permission.ActionLog)

	type step struct {
		role     *permission.RolePermissionChange
		override *permission.UserOverrideChange
	}

	steps := []step{
		{role: &permission.RolePermissionChange{CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: approve.ID, IsGranted: true, ChangedBy: ownerID}},
		{role: &permission.RolePermissionChange{CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: approve.ID, IsGranted: true, ChangedBy: ownerID}},
		{override: &permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeRevoke, ChangedBy: ownerID}},
		{role: &permission.RolePermissionChange{CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: logHours.ID, IsGranted: false, ChangedBy: ownerID}},
		{override: &permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: logHours.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID}},
		{override: &permission.UserOverrideChange{UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID}},
	}

	for i, s := range steps {
		var (
			res          permission.Result
			err          error
			permissionID uint
			wantNew      bool
			wantPrevious bool
		)

		if s.role != nil {
			permissionID = s.role.PermissionID
			wantPrevious = roleLevel(t, f, worker.ID, permissionID)
			wantNew = s.role.IsGranted

			res, err = f.svc.UpdateRolePermission(f.ctx, *s.role)
			require.NoError(t, err)
		} else {
			permissionID = s.override.PermissionID
			p, lookupErr := f.store.Permissions().Get(f.ctx, permissionID)
			require.NoError(t, lookupErr)

			wantPrevious = f.has(t, workerID, f.company.ID, p.Resource, p.Action)
			wantNew = s.override.GrantType.Granted()

			res, err = f.svc.UpdateUserPermissionOverride(f.ctx, *s.override)
			require.NoError(t, err)
		}

		require.True(t, res.OK(), "step %d: %s", i, res.Reason())
		require.Len(t, res.Changes, 1, "step %d", i)

		entries := f.changes(t, permission.ChangeFilter{CompanyID: f.company.ID, Limit: 1})
		require.Len(t, entries, 1)

		e := entries[0]
		assert.Equal(t, res.Changes[0], e.ID, "step %d", i)
		assert.Equal(t, permissionID, e.PermissionID, "step %d", i)
		assert.Equal(t, wantPrevious, e.PreviousState, "step %d previous", i)
		assert.Equal(t, wantNew, e.NewState, "step %d new", i)
		assert.Equal(t, ownerID, e.ChangedBy, "step %d", i)
		assert.False(t, e.CreatedAt.IsZero())
	}

	assert.Len(t, f.changes(t, permission.ChangeFilter{CompanyID: f.company.ID}), len(steps))
}

// roleLevel reads the role level value the way a customization sees it.
func roleLevel(t *testing.T, f *fixture, roleID, permissionID uint) bool {
	t.Helper()

	crp, err := f.store.CompanyRolePermissions().Get(f.ctx, f.company.ID, roleID, permissionID)
	if err == nil {
		return crp.IsGranted
	}

	require.ErrorIs(t, err, permission.ErrNotFound)

	ok, err := f.store.RolePermissions().Exists(f.ctx, roleID, permissionID)
	require.NoError(t, err)

	return ok
}
