package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/archive"
	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/fetch"
	"github.com/deskforge/deskforge/pkg/installers"
	"github.com/deskforge/deskforge/pkg/provision"
	"github.com/deskforge/deskforge/pkg/registry"
	"github.com/deskforge/deskforge/pkg/testutil"
)

func newDispatcher(t *testing.T, env *testutil.Environment, raw map[string]map[string]any) *Dispatcher {
	t.Helper()

	table, err := feature.BuildTable(raw)
	require.NoError(t, err)

	engine := fetch.New(env.Ops, env.Paths, false)
	prov := &provision.Deps{
		Ops:     env.Ops,
		Paths:   env.Paths,
		Runner:  env.Runner,
		Fetch:   engine,
		Archive: archive.New(env.Ops, engine, env.Runner),
		Settings: &config.Settings{
			PackageManager: config.PackageManager{
				Install:     "apt-get install -y",
				InstallFile: "dpkg -i",
				FixBroken:   "apt-get install -f -y",
			},
			PythonCommand: "python3",
		},
	}

	set := registry.NewSet(env.Ops, env.Paths)
	require.NoError(t, set.EnsureAll())
	steps := installers.Pipeline(&installers.Deps{
		Ops:        env.Ops,
		Paths:      env.Paths,
		Fetch:      engine,
		Registries: set,
		Launchers:  desktop.NewLaunchers(env.Ops, env.Paths),
		Flags:      config.Flags{},
	})

	return New(table, prov, steps)
}

func TestInstallPackageNamesOnly(t *testing.T) {
	env := testutil.NewEnvironment(t)
	d := newDispatcher(t, env, map[string]map[string]any{
		"tool": {"packagenames": []any{"foo"}},
	})

	require.NoError(t, d.Install(context.Background(), "tool"))

	lines := env.Runner.CallLines()
	require.Len(t, lines, 2, "exactly one install and one fix-broken, nothing else")
	assert.Equal(t, "apt-get install -y foo", lines[0])
	assert.Equal(t, "apt-get install -f -y", lines[1])
}

func TestInstallUnknownFeature(t *testing.T) {
	env := testutil.NewEnvironment(t)
	d := newDispatcher(t, env, map[string]map[string]any{})

	err := d.Install(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFeatureNotFound))
}

func TestInstallRunsApplicableInstallers(t *testing.T) {
	env := testutil.NewEnvironment(t)
	d := newDispatcher(t, env, map[string]map[string]any{
		"term": {
			"packagenames": []any{"gnome-terminal"},
			"keybindings":  []any{"gnome-terminal;<Primary><Alt>T;Terminal"},
		},
	})

	require.NoError(t, d.Install(context.Background(), "term"))

	reg := registry.New(env.Ops, env.Paths.KeybindingsRegistryPath())
	entries, err := reg.Entries()
	require.NoError(t, err)
	assert.Equal(t, []string{"gnome-terminal;<Primary><Alt>T;Terminal"}, entries)
}

func TestInstallerFailureDoesNotSuppressOthers(t *testing.T) {
	env := testutil.NewEnvironment(t)

	// launchercontents comes before keybindings in the pipeline; making the
	// desktop directory path unusable fails that step without stopping the rest
	env.WriteFile(env.Paths.DesktopDir(), "not a directory")

	d := newDispatcher(t, env, map[string]map[string]any{
		"app": {
			"packagenames":     []any{"app"},
			"launchercontents": []any{"[Desktop Entry]"},
			"keybindings":      []any{"app;<Super>A;App"},
		},
	})

	require.NoError(t, d.Install(context.Background(), "app"))

	reg := registry.New(env.Ops, env.Paths.KeybindingsRegistryPath())
	entries, err := reg.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "later installers still run after an earlier failure")
}

func TestInstallAsOverridesDeclaredType(t *testing.T) {
	env := testutil.NewEnvironment(t)
	d := newDispatcher(t, env, map[string]map[string]any{
		"dual": {
			"packagenames":  []any{"dual"},
			"repositoryurl": "https://example.com/dual.git",
		},
	})

	// declared attributes infer a clone; force the package manager path
	require.NoError(t, d.InstallAs(context.Background(), "dual", feature.SystemPackage))
	assert.Equal(t, 1, env.Runner.CountPrefix("apt-get install -y dual"))
}

func TestProvisionFailureIsFatal(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.Fail("apt-get install -y broken", "no candidate", 100)

	d := newDispatcher(t, env, map[string]map[string]any{
		"broken": {
			"packagenames": []any{"broken"},
			"keybindings":  []any{"broken;<Super>B;Broken"},
		},
	})

	require.Error(t, d.Install(context.Background(), "broken"))

	reg := registry.New(env.Ops, env.Paths.KeybindingsRegistryPath())
	entries, err := reg.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries, "installers must not run after a failed provision")
}
