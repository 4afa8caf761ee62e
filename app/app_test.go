package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigTOML = `Title = "crewaccess"

[DB]
Engine = "sqlite"
Path = "%s"
Password = "secret"

[Webserver]
Port = 8080

[Log]
LogLevel = "error"
AppName = "crewaccess"
ServiceName = "crewaccess-test"
`

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	content := []byte(fmt.Sprintf(testConfigTOML, filepath.ToSlash(filepath.Join(dir, "crewaccess.db"))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), content, 0o600))

	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	dumpJSON = false

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "crewaccess version dev\n", out)
}

func TestCheckConfigMasksPassword(t *testing.T) {
	dir := writeConfig(t)

	out, err := run(t, "check", "config", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, maskedPassword)
	assert.NotContains(t, out, "secret")

	out, err = run(t, "check", "config", "--json", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"Password": "`+maskedPassword+`"`)
}

func TestMigrateProvisionAndCheck(t *testing.T) {
	dir := writeConfig(t)

	_, err := run(t, "migrate", "--config", dir)
	require.NoError(t, err)

	// no company has been created yet
	_, err = run(t, "provision", "1", "1", "--config", dir)
	require.Error(t, err)

	out, err := run(t, "check", "1", "1", "work_hours", "log", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "work_hours.log denied for user 1 in company 1 (source: none)")
	assert.Contains(t, out, "reason: user is not a member of the company")

	_, err = run(t, "provision", "one", "1", "--config", dir)
	require.Error(t, err)
}
