package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/crewaccess/internal/db/dbtest"
	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

func TestNewResolverNilStore(t *testing.T) {
	_, err := permission.NewResolver(nil)
	require.ErrorIs(t, err, permission.ErrStoreNil)

	_, err = permission.NewService(nil)
	require.ErrorIs(t, err, permission.ErrStoreNil)
}

func TestHasPermissionFailsClosedForNonMembers(t *testing.T) {
	f := newFixture(t)

	const stranger uint64 = 99

	for _, cp := range permission.Permissions {
		assert.False(t, f.has(t, stranger, f.company.ID, cp.Resource, cp.Action), cp.String())
	}

	// the owner is a member of the company, not of a company that does not exist
	assert.False(t, f.has(t, ownerID, f.company.ID+100, permission.ResourceCompany, permission.ActionView))

	effective, err := f.svc.GetEffectivePermissions(f.ctx, stranger, f.company.ID)
	require.NoError(t, err)
	require.Len(t, effective, len(permission.Permissions))

	for _, ep := range effective {
		assert.False(t, ep.IsGranted)
		assert.Equal(t, permission.SourceNone, ep.Source)
	}
}

func TestHasPermissionUnknownPermission(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.has(t, ownerID, f.company.ID, "boats", "sail"))

	d, err := f.svc.Explain(f.ctx, ownerID, f.company.ID, "boats", "sail")
	require.NoError(t, err)
	assert.Equal(t, permission.SourceNone, d.Source)
	assert.Equal(t, "unknown permission", d.Reason)
}

func TestRoleDefaults(t *testing.T) {
	f := newFixture(t)

	const worker, manager uint64 = 10, 11

	f.member(t, worker, f.company.ID, permission.RoleWorker)
	f.member(t, manager, f.company.ID, permission.RoleManager)

	testCases := []struct {
		name     string
		userID   uint64
		resource string
		action   string
		want     bool
	}{
		{"owner manages the company", ownerID, permission.ResourceCompany, permission.ActionManage, true},
		{"owner manages permissions", ownerID, permission.ResourcePermissions, permission.ActionManage, true},
		{"worker logs hours", worker, permission.ResourceWorkHours, permission.ActionLog, true},
		{"worker cannot approve hours", worker, permission.ResourceWorkHours, permission.ActionApprove, false},
		{"worker cannot manage permissions", worker, permission.ResourcePermissions, permission.ActionManage, false},
		{"manager approves hours", manager, permission.ResourceWorkHours, permission.ActionApprove, true},
		{"manager cannot delete invoices", manager, permission.ResourceInvoices, permission.ActionDelete, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.has(t, tc.userID, f.company.ID, tc.resource, tc.action))
		})
	}

	anyOf, err := f.svc.HasAnyPermission(f.ctx, worker, f.company.ID,
		permission.Key{Resource: permission.ResourceWorkHours, Action: permission.ActionApprove},
		permission.Key{Resource: permission.ResourceWorkHours, Action: permission.ActionLog},
	)
	require.NoError(t, err)
	assert.True(t, anyOf)

	all, err := f.svc.HasAllPermissions(f.ctx, worker, f.company.ID,
		permission.Key{Resource: permission.ResourceWorkHours, Action: permission.ActionApprove},
		permission.Key{Resource: permission.ResourceWorkHours, Action: permission.ActionLog},
	)
	require.NoError(t, err)
	assert.False(t, all)

	none, err := f.svc.HasAnyPermission(f.ctx, worker, f.company.ID)
	require.NoError(t, err)
	assert.False(t, none, "no keys grant nothing")
}

func TestPrecedenceChain(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 10

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	worker := f.role(t, f.company.ID, permission.RoleWorker)
	logHours := f.perm(t, permission.ResourceWorkHours, permission.ActionLog)

	explain := func() permission.Decision {
		d, err := f.svc.Explain(f.ctx, workerID, f.company.ID, logHours.Resource, logHours.Action)
		require.NoError(t, err)

		return d
	}

	d := explain()
	assert.True(t, d.Allowed)
	assert.Equal(t, permission.SourceDefault, d.Source)

	res, err := f.svc.UpdateRolePermission(f.ctx, permission.RolePermissionChange{
		CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: logHours.ID, IsGranted: false, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: logHours.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	d = explain()
	assert.True(t, d.Allowed, "user override wins")
	assert.Equal(t, permission.SourceUser, d.Source)

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: logHours.ID, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	d = explain()
	assert.False(t, d.Allowed, "company customization wins")
	assert.Equal(t, permission.SourceCompany, d.Source)

	res, err = f.svc.ResetRolePermissions(f.ctx, f.company.ID, worker.ID, ownerID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	d = explain()
	assert.True(t, d.Allowed, "role default wins")
	assert.Equal(t, permission.SourceDefault, d.Source)
}

func TestWorkerApprovalScenario(t *testing.T) {
	f := newFixture(t)

	const adminID, workerID uint64 = 5, 6

	f.member(t, adminID, f.company.ID, permission.RoleAdmin)
	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)

	worker := f.role(t, f.company.ID, permission.RoleWorker)
	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)

	require.False(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))

	res, err := f.svc.UpdateRolePermission(f.ctx, permission.RolePermissionChange{
		CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: approve.ID, IsGranted: true, ChangedBy: adminID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	assert.True(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeRevoke, ChangedBy: adminID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	assert.False(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))
}

func TestCrossCompanyIsolation(t *testing.T) {
	f := newFixture(t)
	other := f.addCompany(t, "Other Builders")

	const workerID uint64 = 20

	inA := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	f.member(t, workerID, other.ID, permission.RoleWorker)

	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)
	logHours := f.perm(t, permission.ResourceWorkHours, permission.ActionLog)

	for _, change := range []permission.UserOverrideChange{
		{UserCompanyID: inA.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID},
		{UserCompanyID: inA.ID, PermissionID: logHours.ID, GrantType: models.GrantTypeRevoke, ChangedBy: ownerID},
	} {
		res, err := f.svc.UpdateUserPermissionOverride(f.ctx, change)
		require.NoError(t, err)
		require.True(t, res.OK(), res.Reason())
	}

	// a customization in A does not leak either
	res, err := f.svc.UpdateRolePermission(f.ctx, permission.RolePermissionChange{
		CompanyID: f.company.ID, RoleID: f.role(t, f.company.ID, permission.RoleWorker).ID,
		PermissionID: f.perm(t, permission.ResourceDocuments, permission.ActionUpload).ID, IsGranted: true, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	assert.True(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))
	assert.False(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionLog))
	assert.True(t, f.has(t, workerID, f.company.ID, permission.ResourceDocuments, permission.ActionUpload))

	assert.False(t, f.has(t, workerID, other.ID, permission.ResourceWorkHours, permission.ActionApprove))
	assert.True(t, f.has(t, workerID, other.ID, permission.ResourceWorkHours, permission.ActionLog))
	assert.False(t, f.has(t, workerID, other.ID, permission.ResourceDocuments, permission.ActionUpload))
}

func TestInactiveMembershipDeniesEverything(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 30

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	logHours := f.perm(t, permission.ResourceWorkHours, permission.ActionLog)

	res, err := f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: logHours.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	require.NoError(t, f.gdb.Model(&models.UserCompany{}).Where("id = ?", uc.ID).Update("is_active", false).Error)

	assert.False(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionLog))
	assert.False(t, f.has(t, workerID, f.company.ID, permission.ResourceCompany, permission.ActionView))

	effective, err := f.svc.GetEffectivePermissions(f.ctx, workerID, f.company.ID)
	require.NoError(t, err)

	for _, ep := range effective {
		assert.False(t, ep.IsGranted, "%s.%s", ep.Resource, ep.Action)
	}
}

func TestInactiveRoleOnlyKeepsUserOverrides(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 40

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	worker := f.role(t, f.company.ID, permission.RoleWorker)
	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)

	res, err := f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	res, err = f.svc.DeactivateRole(f.ctx, f.company.ID, worker.ID, ownerID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	d, err := f.svc.Explain(f.ctx, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionLog)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "role default of an inactive role")
	assert.Equal(t, "assigned role is inactive", d.Reason)

	assert.True(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove))

	effective, err := f.svc.GetEffectivePermissions(f.ctx, workerID, f.company.ID)
	require.NoError(t, err)

	granted := map[string]permission.Source{}

	for _, ep := range effective {
		if ep.IsGranted {
			granted[ep.Resource+"."+ep.Action] = ep.Source
		}
	}

	assert.Equal(t, map[string]permission.Source{"work_hours.approve": permission.SourceUser}, granted)

	res, err = f.svc.ActivateRole(f.ctx, f.company.ID, worker.ID, ownerID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	assert.True(t, f.has(t, workerID, f.company.ID, permission.ResourceWorkHours, permission.ActionLog))
}

func TestRoleOfAnotherCompanyIsDenied(t *testing.T) {
	f := newFixture(t)

	const crossID uint64 = 41

	other := f.addCompany(t, "Other Builders")
	foreign := f.role(t, other.ID, permission.RoleManager)

	dbtest.Membership(t, f.gdb, crossID, f.company.ID, foreign.ID)

	d, err := f.svc.Explain(f.ctx, crossID, f.company.ID, permission.ResourceWorkHours, permission.ActionApprove)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.SourceNone, d.Source)
	assert.Equal(t, "assigned role belongs to another company", d.Reason)

	effective, err := f.svc.GetEffectivePermissions(f.ctx, crossID, f.company.ID)
	require.NoError(t, err)

	for _, ep := range effective {
		assert.False(t, ep.IsGranted, "%s.%s", ep.Resource, ep.Action)
	}

	// the same role still works inside its own company
	f.member(t, crossID, other.ID, permission.RoleManager)
	assert.True(t, f.has(t, crossID, other.ID, permission.ResourceWorkHours, permission.ActionApprove))
}

func TestGetEffectivePermissions(t *testing.T) {
	f := newFixture(t)

	const workerID uint64 = 50

	uc := f.member(t, workerID, f.company.ID, permission.RoleWorker)
	worker := f.role(t, f.company.ID, permission.RoleWorker)
	approve := f.perm(t, permission.ResourceWorkHours, permission.ActionApprove)
	upload := f.perm(t, permission.ResourceDocuments, permission.ActionUpload)
	viewDocs := f.perm(t, permission.ResourceDocuments, permission.ActionView)

	res, err := f.svc.UpdateRolePermission(f.ctx, permission.RolePermissionChange{
		CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: upload.ID, IsGranted: true, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	res, err = f.svc.UpdateRolePermission(f.ctx, permission.RolePermissionChange{
		CompanyID: f.company.ID, RoleID: worker.ID, PermissionID: viewDocs.ID, IsGranted: false, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	res, err = f.svc.UpdateUserPermissionOverride(f.ctx, permission.UserOverrideChange{
		UserCompanyID: uc.ID, PermissionID: approve.ID, GrantType: models.GrantTypeGrant, ChangedBy: ownerID,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	effective, err := f.svc.GetEffectivePermissions(f.ctx, workerID, f.company.ID)
	require.NoError(t, err)
	require.Len(t, effective, len(permission.Permissions))

	// the batch view agrees with the single checks
	for _, ep := range effective {
		d, err := f.svc.Explain(f.ctx, workerID, f.company.ID, ep.Resource, ep.Action)
		require.NoError(t, err)
		assert.Equal(t, d.Allowed, ep.IsGranted, "%s.%s", ep.Resource, ep.Action)
		assert.Equal(t, d.Source, ep.Source, "%s.%s", ep.Resource, ep.Action)
	}

	byName := map[string]permission.EffectivePermission{}
	for _, ep := range effective {
		byName[ep.Resource+"."+ep.Action] = ep
	}

	assert.Equal(t, permission.SourceUser, byName["work_hours.approve"].Source)
	assert.Equal(t, permission.SourceCompany, byName["documents.upload"].Source)
	assert.False(t, byName["documents.view"].IsGranted)
	assert.Equal(t, permission.SourceDefault, byName["work_hours.log"].Source)
	assert.Equal(t, permission.SourceNone, byName["invoices.delete"].Source)
}
