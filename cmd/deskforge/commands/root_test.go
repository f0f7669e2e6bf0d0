package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/testutil"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootWithoutSubcommandFails(t *testing.T) {
	err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestVersionCommand(t *testing.T) {
	assert.NoError(t, execute(t, "version"))
}

func TestInitCreatesRegistries(t *testing.T) {
	env := testutil.NewEnvironment(t)

	require.NoError(t, execute(t, "init"))

	assert.True(t, env.Ops.Exists(env.Paths.FavoritesRegistryPath()))
	assert.True(t, env.Ops.Exists(env.Paths.KeybindingsRegistryPath()))
	assert.True(t, env.Ops.Exists(env.Paths.FunctionRegistryPath()))
	assert.True(t, env.Ops.Exists(env.Paths.InitRegistryPath()))
}

func TestInstallRequiresTable(t *testing.T) {
	testutil.NewEnvironment(t)

	err := execute(t, "install", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature table")
}

func TestInstallFromTableFile(t *testing.T) {
	env := testutil.NewEnvironment(t)

	tablePath := env.Home + "/features.toml"
	env.WriteFile(tablePath, "[shellkit]\nbashfunctions = [\"greet() { echo hi; }\"]\n")

	require.NoError(t, execute(t, "install", "shellkit", "--table", tablePath))

	entries := env.ReadFile(env.Paths.FunctionRegistryPath())
	assert.Contains(t, entries, env.Paths.FunctionsDir())
}
