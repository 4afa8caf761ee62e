package daemon_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/daemon"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "crewaccess",
		DB: config.DB{
			Engine: config.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "crewaccess.db"),
		},
		Webserver: config.Webserver{Port: 8080, CallerHeader: "X-User-ID"},
		Policy: config.Policy{
			RequireReason:   true,
			ManageResource:  permission.ResourcePermissions,
			ManageAction:    permission.ActionManage,
			MembersResource: permission.ResourceUsers,
			MembersAction:   permission.ActionManage,
		},
	}
}

func TestNew(t *testing.T) {
	_, err := daemon.New(context.Background(), nil)
	require.ErrorIs(t, err, daemon.ErrConfigNil)

	d, err := daemon.New(context.Background(), testConfig(t))
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close() })

	policy := d.Permissions().Policy()
	assert.True(t, policy.RequireReason)
	assert.Equal(t, permission.Key{Resource: permission.ResourcePermissions, Action: permission.ActionManage}, policy.Manage)

	perms, err := d.Permissions().AuditLog().History(context.Background(), permission.ChangeFilter{})
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestPolicy(t *testing.T) {
	p := daemon.Policy(config.Policy{ManageResource: "roles", ManageAction: "edit"})

	assert.False(t, p.RequireReason)
	assert.Equal(t, permission.Key{Resource: "roles", Action: "edit"}, p.Manage)
	assert.Equal(t, permission.Key{}, p.ManageMembers)
}
