//go:generate mockgen -destination=./mocks/plugin.go . Resolver
package plugin

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Conventional layout of a plugin below its root.
const (
	DefaultConfigDir = "config"
	DefaultClassDir  = "src"
	PluginClassFile  = "Plugin.php"
)

// Resolver maps plugin names to their on-disk locations.
type Resolver interface {
	// Resolve returns the location of the named plugin or ErrPluginNotFound.
	Resolve(ctx context.Context, name string) (*Location, error)
	// Names lists every plugin the resolver knows about, sorted.
	Names(ctx context.Context) ([]string, error)
}

// Location is a resolved plugin. All paths except Root are slash separated and
// relative to FS.
type Location struct {
	Name      string
	Root      string
	FS        fs.FS
	ConfigDir string
	ClassDir  string
	// Writable is true when Root is a directory the plugin class can be written back to.
	Writable bool

	closer io.Closer
}

// NewLocation returns a read-only location backed by fsys using the conventional layout.
func NewLocation(name, root string, fsys fs.FS) *Location {
	return &Location{
		Name:      name,
		Root:      root,
		FS:        fsys,
		ConfigDir: DefaultConfigDir,
		ClassDir:  DefaultClassDir,
	}
}

// NewDirLocation returns a writable location for a plugin directory on disk.
func NewDirLocation(name, root string) *Location {
	loc := NewLocation(name, root, os.DirFS(root))
	loc.Writable = true
	return loc
}

// ConfigFile returns the FS path of a file in the plugin's config directory.
func (l *Location) ConfigFile(name string) string {
	return path.Join(l.ConfigDir, name)
}

// ClassFile returns the FS path of a file in the plugin's class directory.
func (l *Location) ClassFile(name string) string {
	return path.Join(l.ClassDir, name)
}

// PluginClass returns the FS path of the plugin's main class file.
func (l *Location) PluginClass() string {
	return l.ClassFile(PluginClassFile)
}

// DisplayPath joins an FS path onto Root for reporting and writing.
func (l *Location) DisplayPath(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Close releases resources held by archive backed locations.
func (l *Location) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
