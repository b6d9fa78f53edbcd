package plugin

import (
	"context"
	"io"
	"io/fs"

	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/mholt/archives"
)

// openArchive returns a read-only location for a packaged plugin.
// Archives holding a single top-level directory are rooted at that directory.
func openArchive(ctx context.Context, name, archivePath string) (*Location, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, readError(archivePath, err)
	}

	switch fsys.(type) {
	case archives.FileFS, *archives.FileFS:
		closeFS(fsys)
		return nil, errors.Wrapf(errors.ErrPluginNotFound, "%s is neither a directory nor a supported archive", archivePath)
	}

	root, err := archiveRoot(fsys)
	if err != nil {
		closeFS(fsys)
		return nil, readError(archivePath, err)
	}

	loc := NewLocation(name, archivePath, fsys)
	if root != "." {
		sub, err := fs.Sub(fsys, root)
		if err != nil {
			closeFS(fsys)
			return nil, readError(archivePath, err)
		}
		loc.FS = sub
		loc.Root = loc.DisplayPath(root)
	}
	if closer, ok := fsys.(io.Closer); ok {
		loc.closer = closer
	}
	return loc, nil
}

// archiveRoot finds the directory inside an archive that holds the plugin layout.
func archiveRoot(fsys fs.FS) (string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return "", err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return ".", nil
	}
	switch entries[0].Name() {
	case DefaultConfigDir, DefaultClassDir:
		return ".", nil
	}
	return entries[0].Name(), nil
}

func closeFS(fsys fs.FS) {
	if closer, ok := fsys.(io.Closer); ok {
		_ = closer.Close()
	}
}
