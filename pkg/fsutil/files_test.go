package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteFileAtomic_NewFile tests writing a file that does not exist yet
func TestWriteFileAtomic_NewFile(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "nested", "Plugin.php")

	err := WriteFileAtomic(target, []byte("<?php\n"), FileModeDefault)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(content))

	// No temporary files remain next to the target
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestWriteFileAtomic_ReplacesAndKeepsMode tests that an existing file is replaced and keeps its mode
func TestWriteFileAtomic_ReplacesAndKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "Plugin.php")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))

	err := WriteFileAtomic(target, []byte("new"), FileModeDefault)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileAtomic_EmptyPath(t *testing.T) {
	assert.Error(t, WriteFileAtomic("", []byte("x"), FileModeDefault))
}
