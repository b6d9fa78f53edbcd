package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/hooks"
	"github.com/mholt/archives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// writeArchive packs srcDir into a tar.gz at archivePath, placing its contents below prefix.
func writeArchive(t *testing.T, srcDir, prefix, archivePath string) {
	t.Helper()
	ctx := context.Background()

	key := srcDir + string(os.PathSeparator)
	if prefix != "" {
		key = srcDir
	}
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{key: prefix})
	require.NoError(t, err)

	out, err := os.Create(archivePath)
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	require.NoError(t, format.Archive(ctx, out, files))
}

func TestPathResolver_PluginsDir(t *testing.T) {
	appRoot := t.TempDir()
	writeTree(t, appRoot, map[string]string{
		"plugins/Tools/src/Plugin.php":         "<?php",
		"plugins/Vendor/Nested/config/app.php": "<?php",
	})
	r := NewPathResolver(appRoot, nil)

	loc, err := r.Resolve(context.Background(), "Tools")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "plugins", "Tools"), loc.Root)
	assert.True(t, loc.Writable)
	assert.Equal(t, filepath.Join(appRoot, "plugins", "Tools", "src", "Plugin.php"), loc.DisplayPath(loc.PluginClass()))

	loc, err = r.Resolve(context.Background(), "Vendor/Nested")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "plugins", "Vendor", "Nested"), loc.Root)
}

func TestPathResolver_ExplicitPathWins(t *testing.T) {
	appRoot := t.TempDir()
	writeTree(t, appRoot, map[string]string{
		"plugins/Tools/src/Plugin.php": "<?php",
		"custom/tools/src/Plugin.php":  "<?php",
	})
	r := NewPathResolver(appRoot, map[string]string{"Tools": "custom/tools"})

	loc, err := r.Resolve(context.Background(), "Tools")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "custom", "tools"), loc.Root)
}

func TestPathResolver_Manifest(t *testing.T) {
	appRoot := t.TempDir()
	writeTree(t, appRoot, map[string]string{
		"vendor/cakephp-plugins.php": `<?php
$baseDir = dirname(dirname(__FILE__));

return [
    'plugins' => [
        'Tools' => $baseDir . '/vendor/dereuromark/cakephp-tools/',
        'Shim' => $baseDir . '/vendor/dereuromark/cakephp-shim/',
    ],
];
`,
		"vendor/dereuromark/cakephp-tools/src/Plugin.php": "<?php",
	})
	r := NewPathResolver(appRoot, nil)

	loc, err := r.Resolve(context.Background(), "Tools")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "vendor", "dereuromark", "cakephp-tools"), loc.Root)

	// Listed in the manifest but not installed.
	_, err = r.Resolve(context.Background(), "Shim")
	require.ErrorIs(t, err, errors.ErrPluginNotFound)
}

func TestParseManifest(t *testing.T) {
	got := ParseManifest(`'A' => $baseDir . '/plugins/A/', "B/C" => $vendorDir . '/b/c/'`, "/app")
	assert.Equal(t, map[string]string{
		"A":   filepath.Join("/app", "plugins", "A"),
		"B/C": filepath.Join("/app", "vendor", "b", "c"),
	}, got)
}

func TestPathResolver_Errors(t *testing.T) {
	r := NewPathResolver(t.TempDir(), nil)

	_, err := r.Resolve(context.Background(), "")
	require.ErrorIs(t, err, errors.ErrEmptyPluginName)

	_, err = r.Resolve(context.Background(), "Nope")
	require.ErrorIs(t, err, errors.ErrPluginNotFound)
}

func TestPathResolver_Names(t *testing.T) {
	appRoot := t.TempDir()
	writeTree(t, appRoot, map[string]string{
		"plugins/Local/src/Plugin.php": "<?php",
		"plugins/.hidden/x":            "",
		"vendor/cakephp-plugins.php":   `<?php return ['plugins' => ['Vendored' => $baseDir . '/vendor/x/']];`,
	})
	r := NewPathResolver(appRoot, map[string]string{"Configured": "elsewhere"})

	names, err := r.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Configured", "Local", "Vendored"}, names)
}

func TestPathResolver_Archive(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "flat archive", prefix: ""},
		{name: "archive with top-level directory", prefix: "Tools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			src := filepath.Join(tempDir, "src-tree")
			writeTree(t, src, map[string]string{
				"config/bootstrap.php":           "<?php\nrequire 'x.php';",
				"src/Plugin.php":                 "<?php\nclass Plugin extends BasePlugin {\n\tprotected $bootstrapEnabled = false;\n}\n",
				"src/Command/Sub/FooCommand.php": "<?php",
			})
			archivePath := filepath.Join(tempDir, "Tools.tar.gz")
			writeArchive(t, src, tt.prefix, archivePath)

			r := NewPathResolver(tempDir, map[string]string{"Tools": archivePath})
			loc, err := r.Resolve(context.Background(), "Tools")
			require.NoError(t, err)
			defer func() { _ = loc.Close() }()
			assert.False(t, loc.Writable)

			result, err := NewInspector(r, hooks.DefaultNames).ProbeLocation(context.Background(), loc)
			require.NoError(t, err)
			assert.True(t, result.PluginClassExists)

			bootstrap, _ := result.Hook(hooks.Bootstrap)
			assert.True(t, bootstrap.Exists)
			require.NotNil(t, bootstrap.Enabled)
			assert.False(t, *bootstrap.Enabled)

			console, _ := result.Hook(hooks.Console)
			assert.True(t, console.Exists)
		})
	}
}

func TestPathResolver_PlainFileIsNotAPlugin(t *testing.T) {
	tempDir := t.TempDir()
	plain := filepath.Join(tempDir, "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello"), 0o644))

	r := NewPathResolver(tempDir, map[string]string{"Notes": plain})
	_, err := r.Resolve(context.Background(), "Notes")
	require.ErrorIs(t, err, errors.ErrPluginNotFound)
}
