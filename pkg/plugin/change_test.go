package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAndApply(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"config/bootstrap.php": "<?php\nrequire 'x.php';\n",
		"src/Plugin.php":       "<?php\nclass Plugin extends BasePlugin {\n\tprotected $bootstrapEnabled = false;\n}\n",
	})
	loc := NewDirLocation("Tools", root)
	inspector := NewInspector(nil, hooks.Set{hooks.Bootstrap, hooks.Routes})
	patcher := NewPatcher(inspector.Hooks(), inspector.Scanner())

	change, err := Plan(context.Background(), inspector, patcher, loc)
	require.NoError(t, err)
	require.True(t, change.Changed())
	assert.Equal(t, filepath.Join(root, "src", "Plugin.php"), change.Path())

	diff, err := change.Diff()
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/src/Plugin.php")
	assert.Contains(t, diff, "+++ b/src/Plugin.php")
	assert.Contains(t, diff, "-\tprotected $bootstrapEnabled = false;")
	assert.Contains(t, diff, "+\tprotected $bootstrapEnabled = true;")
	assert.Contains(t, diff, "+\tprotected $routesEnabled = false;")

	require.NoError(t, change.Apply())
	data, err := os.ReadFile(change.Path())
	require.NoError(t, err)
	assert.Equal(t, change.After, string(data))

	// A second plan over the written file has nothing left to do.
	again, err := Plan(context.Background(), inspector, patcher, loc)
	require.NoError(t, err)
	assert.False(t, again.Changed())
	diff, err = again.Diff()
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestPlan_CreatesMissingClass(t *testing.T) {
	root := t.TempDir()
	loc := NewDirLocation("Vendor/Tools", root)
	inspector := NewInspector(nil, hooks.DefaultNames)

	change, err := Plan(context.Background(), inspector, NewPatcher(inspector.Hooks(), nil), loc)
	require.NoError(t, err)
	assert.Empty(t, change.Before)
	assert.Contains(t, change.After, "namespace Vendor\\Tools;")

	require.NoError(t, change.Apply())
	assert.FileExists(t, filepath.Join(root, "src", "Plugin.php"))
}

func TestApply_ReadOnlyLocation(t *testing.T) {
	loc := NewLocation("Tools", "/archives/Tools.zip", fstest.MapFS{})
	inspector := NewInspector(nil, hooks.DefaultNames)

	change, err := Plan(context.Background(), inspector, NewPatcher(inspector.Hooks(), nil), loc)
	require.NoError(t, err)
	require.True(t, change.Changed())

	err = change.Apply()
	require.ErrorIs(t, err, errors.ErrReadOnlyLocation)
}
