package installers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/fetch"
	"github.com/deskforge/deskforge/pkg/registry"
	"github.com/deskforge/deskforge/pkg/testutil"
)

func newDeps(t *testing.T, env *testutil.Environment, flags config.Flags) *Deps {
	t.Helper()
	set := registry.NewSet(env.Ops, env.Paths)
	require.NoError(t, set.EnsureAll())
	return &Deps{
		Ops:        env.Ops,
		Paths:      env.Paths,
		Fetch:      fetch.New(env.Ops, env.Paths, false),
		Registries: set,
		Launchers:  desktop.NewLaunchers(env.Ops, env.Paths),
		Flags:      flags,
	}
}

func TestPipelineOrdersDownloadsBeforeConsumers(t *testing.T) {
	env := testutil.NewEnvironment(t)
	steps := Pipeline(newDeps(t, env, config.Flags{}))

	position := map[string]int{}
	for i, step := range steps {
		position[step.Name()] = i
	}

	require.Contains(t, position, "downloads")
	assert.Less(t, position["downloads"], position["file-moves"])
	assert.Less(t, position["downloads"], position["binaries"])
	assert.Less(t, position["downloads"], position["files"])
}

func TestManualLaunchers(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	desc := &feature.Descriptor{
		Key:              "editor",
		LauncherContents: []string{"[Desktop Entry]\nName=One", "[Desktop Entry]\nName=Two"},
	}
	step := &manualLaunchers{deps}
	require.True(t, step.AppliesTo(desc))
	require.NoError(t, step.Apply(context.Background(), desc))

	personal := filepath.Join(env.Paths.PersonalLauncherDir(), "editor_0.desktop")
	assert.Equal(t, "[Desktop Entry]\nName=One", env.ReadFile(personal))
	assert.True(t, env.Ops.Exists(filepath.Join(env.Paths.DesktopDir(), "editor_1.desktop")))
}

func TestShellFunctionsRegistersIdempotently(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	desc := &feature.Descriptor{
		Key:           "tools",
		BashFunctions: []string{"extract() { tar -xf \"$1\"; }"},
	}
	step := &shellFunctions{deps}
	require.NoError(t, step.Apply(context.Background(), desc))
	require.NoError(t, step.Apply(context.Background(), desc))

	scriptPath := filepath.Join(env.Paths.FunctionsDir(), "tools_0.sh")
	assert.True(t, env.Ops.Exists(scriptPath))

	entries, err := deps.Registries.Functions.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], scriptPath)
}

func TestShellInitsTargetLoginRegistry(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	desc := &feature.Descriptor{
		Key:                 "agent",
		BashInitializations: []string{"eval \"$(ssh-agent -s)\""},
	}
	require.NoError(t, (&shellInits{deps}).Apply(context.Background(), desc))

	entries, err := deps.Registries.Inits.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], env.Paths.InitsDir())

	functions, err := deps.Registries.Functions.Entries()
	require.NoError(t, err)
	assert.Empty(t, functions)
}

func TestDownloadsIntoFeatureDir(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	desc := &feature.Descriptor{
		Key:       "viewer",
		Downloads: []feature.Download{{URL: server.URL + "/asset", Filename: "asset.bin"}},
	}
	require.NoError(t, (&downloads{deps}).Apply(context.Background(), desc))

	got := env.ReadFile(filepath.Join(env.Paths.FeatureDir("viewer"), "asset.bin"))
	assert.Equal(t, "payload", got)
}

func TestArbitraryFilesResolveRelativeToFeatureDir(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	absolute := filepath.Join(env.Home, "notes", "config.ini")
	desc := &feature.Descriptor{
		Key: "notes",
		Files: []feature.FileSpec{
			{Key: "rc", Content: "mode=dark", Path: "settings.rc"},
			{Key: "ini", Content: "[core]", Path: absolute},
		},
	}
	require.NoError(t, (&arbitraryFiles{deps}).Apply(context.Background(), desc))

	assert.Equal(t, "mode=dark",
		env.ReadFile(filepath.Join(env.Paths.FeatureDir("notes"), "settings.rc")))
	assert.Equal(t, "[core]", env.ReadFile(absolute))
}

func TestFileMovesWildcardSuffix(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	featureDir := env.Paths.FeatureDir("fonts")
	env.WriteFile(filepath.Join(featureDir, "mono.ttf"), "a")
	env.WriteFile(filepath.Join(featureDir, "serif.ttf"), "b")
	env.WriteFile(filepath.Join(featureDir, "README"), "c")

	dest := filepath.Join(env.Home, ".fonts")
	desc := &feature.Descriptor{
		Key:       "fonts",
		MoveFiles: []feature.MoveFile{{Pattern: "*.ttf", Destination: dest}},
	}
	require.NoError(t, (&fileMoves{deps}).Apply(context.Background(), desc))

	assert.True(t, env.Ops.Exists(filepath.Join(dest, "mono.ttf")))
	assert.True(t, env.Ops.Exists(filepath.Join(dest, "serif.ttf")))
	assert.False(t, env.Ops.Exists(filepath.Join(featureDir, "mono.ttf")))
	assert.True(t, env.Ops.Exists(filepath.Join(featureDir, "README")))
}

func TestFileMovesExactAndMissingSource(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	featureDir := env.Paths.FeatureDir("cli")
	env.WriteFile(filepath.Join(featureDir, "tool"), "bin")

	dest := filepath.Join(env.Home, "bin")
	desc := &feature.Descriptor{
		Key: "cli",
		MoveFiles: []feature.MoveFile{
			{Pattern: "tool", Destination: dest},
			{Pattern: "ghost", Destination: dest},
		},
	}
	require.NoError(t, (&fileMoves{deps}).Apply(context.Background(), desc))

	assert.Equal(t, "bin", env.ReadFile(filepath.Join(dest, "tool")))
	assert.False(t, env.Ops.Exists(filepath.Join(dest, "ghost")))
}

func TestPathBinariesSymlinkPersonalDir(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	env.WriteFile(filepath.Join(env.Paths.FeatureDir("lang"), "bin", "compiler"), "elf")

	desc := &feature.Descriptor{
		Key: "lang",
		BinariesInstalledPaths: []feature.BinaryPath{
			{Path: "bin/compiler", ExposedName: "langc"},
		},
	}
	require.NoError(t, (&pathBinaries{deps}).Apply(context.Background(), desc))

	link := filepath.Join(env.Paths.PersonalBinDir(), "langc")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.Paths.FeatureDir("lang"), "bin", "compiler"), target)
}

func TestFavoritesRegistersExistingLauncher(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Favorites: true})

	env.WriteFile(env.LauncherPath("browser"), "[Desktop Entry]")

	desc := &feature.Descriptor{Key: "browser"}
	step := &favorites{deps}
	require.True(t, step.AppliesTo(desc))
	require.NoError(t, step.Apply(context.Background(), desc))

	entries, err := deps.Registries.Favorites.Entries()
	require.NoError(t, err)
	assert.Equal(t, []string{"browser.desktop"}, entries)
}

func TestFavoritesSkipsMissingLauncherWithoutError(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Favorites: true})

	desc := &feature.Descriptor{Key: "phantom"}
	require.NoError(t, (&favorites{deps}).Apply(context.Background(), desc))

	entries, err := deps.Registries.Favorites.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFavoritesGatedByFlag(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Favorites: false})

	assert.False(t, (&favorites{deps}).AppliesTo(&feature.Descriptor{Key: "x"}))
}

func TestFileAssociationsEditMimeFile(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	env.WriteFile(env.Paths.MimeAppsPath(), "[Default Applications]\ntext/plain=gedit.desktop;\n")

	desc := &feature.Descriptor{
		Key: "player",
		AssociatedFileTypes: []feature.Association{
			{MimeType: "video/mp4"},
			{MimeType: "text/plain", Launcher: "editor"},
		},
	}
	require.NoError(t, (&fileAssociations{deps}).Apply(context.Background(), desc))

	got := env.ReadFile(env.Paths.MimeAppsPath())
	assert.Contains(t, got, "video/mp4=player.desktop;")
	assert.Contains(t, got, "text/plain=gedit.desktop;editor.desktop;")
}

func TestFileAssociationsMissingFileIsWarning(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	desc := &feature.Descriptor{
		Key:                 "player",
		AssociatedFileTypes: []feature.Association{{MimeType: "video/mp4"}},
	}
	require.NoError(t, (&fileAssociations{deps}).Apply(context.Background(), desc))
	assert.False(t, env.Ops.Exists(env.Paths.MimeAppsPath()))
}

func TestKeybindingsAppendTriplets(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	desc := &feature.Descriptor{
		Key: "term",
		Keybindings: []feature.Keybinding{
			{Command: "gnome-terminal", Binding: "<Primary><Alt>T", Name: "Terminal"},
		},
	}
	step := &keybindings{deps}
	require.NoError(t, step.Apply(context.Background(), desc))
	require.NoError(t, step.Apply(context.Background(), desc))

	entries, err := deps.Registries.Keybindings.Entries()
	require.NoError(t, err)
	assert.Equal(t, []string{"gnome-terminal;<Primary><Alt>T;Terminal"}, entries)
}

func TestAutostartPrefersExplicitContent(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Autostart: true})

	env.WriteFile(env.LauncherPath("sync"), "[Desktop Entry]\nName=Installed")

	desc := &feature.Descriptor{
		Key:                "sync",
		AutostartLaunchers: []string{"[Desktop Entry]\nName=Explicit"},
	}
	require.NoError(t, (&autostart{deps}).Apply(context.Background(), desc))

	got := env.ReadFile(filepath.Join(env.Paths.AutostartDir(), "sync_autostart_0.desktop"))
	assert.Equal(t, "[Desktop Entry]\nName=Explicit", got)
}

func TestAutostartCopiesResolvedLauncher(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Autostart: true})

	env.WriteFile(env.LauncherPath("sync"), "[Desktop Entry]\nName=Installed")

	desc := &feature.Descriptor{Key: "sync"}
	require.NoError(t, (&autostart{deps}).Apply(context.Background(), desc))

	got := env.ReadFile(filepath.Join(env.Paths.AutostartDir(), "sync.desktop"))
	assert.Equal(t, "[Desktop Entry]\nName=Installed", got)
}

func TestAutostartGatedByFlag(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{Autostart: false})

	assert.False(t, (&autostart{deps}).AppliesTo(&feature.Descriptor{Key: "x"}))
}

func TestCopyToDesktop(t *testing.T) {
	env := testutil.NewEnvironment(t)
	deps := newDeps(t, env, config.Flags{})

	env.WriteFile(env.LauncherPath("studio"), "[Desktop Entry]")

	desc := &feature.Descriptor{Key: "studio", LauncherNames: []string{"studio", "missing"}}
	step := &copyToDesktop{deps}
	require.True(t, step.AppliesTo(desc))
	require.NoError(t, step.Apply(context.Background(), desc))

	assert.True(t, env.Ops.Exists(filepath.Join(env.Paths.DesktopDir(), "studio.desktop")))
	assert.False(t, env.Ops.Exists(filepath.Join(env.Paths.DesktopDir(), "missing.desktop")))
}
