package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/testutil"
)

func TestFindLauncher(t *testing.T) {
	env := testutil.NewEnvironment(t)
	launchers := NewLaunchers(env.Ops, env.Paths)

	env.WriteFile(env.LauncherPath("deskforge-editor"), "[Desktop Entry]")

	path, ok := launchers.Find("deskforge-editor")
	require.True(t, ok)
	assert.Equal(t, env.LauncherPath("deskforge-editor"), path)

	// the .desktop suffix may be given explicitly
	_, ok = launchers.Find("deskforge-editor.desktop")
	assert.True(t, ok)

	_, ok = launchers.Find("deskforge-ghost")
	assert.False(t, ok)
}
