package plugin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/errors"
)

// DefaultPluginsDir is the application directory holding local plugins.
const DefaultPluginsDir = "plugins"

// PathResolver resolves plugins relative to an application root.
//
// Lookup order: explicit Paths entries, the composer manifest, then
// <AppRoot>/<PluginsDir>/<Name>. A path naming a regular file is opened as
// an archive.
type PathResolver struct {
	AppRoot    string
	Paths      map[string]string
	PluginsDir string
}

// NewPathResolver creates a resolver for the application at appRoot.
// Relative entries in paths are taken relative to appRoot.
func NewPathResolver(appRoot string, paths map[string]string) *PathResolver {
	return &PathResolver{
		AppRoot:    appRoot,
		Paths:      paths,
		PluginsDir: DefaultPluginsDir,
	}
}

// Resolve implements Resolver.
func (r *PathResolver) Resolve(ctx context.Context, name string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.ErrEmptyPluginName
	}

	candidates, err := r.candidates(name)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, readError(candidate, err)
		}

		logger.Debug("Resolved plugin", logger.Fields{"plugin": name, "path": candidate})
		if info.IsDir() {
			return NewDirLocation(name, candidate), nil
		}
		return openArchive(ctx, name, candidate)
	}

	return nil, errors.ErrPluginNotFoundWithName(name, candidates)
}

// Names implements Resolver.
func (r *PathResolver) Names(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for name := range r.Paths {
		seen[name] = true
	}

	manifest, err := loadManifest(r.AppRoot)
	if err != nil {
		return nil, err
	}
	for name := range manifest {
		seen[name] = true
	}

	entries, err := os.ReadDir(r.pluginsDir())
	if err != nil && !os.IsNotExist(err) {
		return nil, readError(r.pluginsDir(), err)
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			seen[entry.Name()] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *PathResolver) candidates(name string) ([]string, error) {
	var candidates []string
	if p, ok := r.Paths[name]; ok && p != "" {
		candidates = append(candidates, r.abs(p))
	}

	manifest, err := loadManifest(r.AppRoot)
	if err != nil {
		return nil, err
	}
	if p, ok := manifest[name]; ok {
		candidates = append(candidates, p)
	}

	// Vendor/Name plugins live in nested directories.
	candidates = append(candidates, filepath.Join(r.pluginsDir(), filepath.FromSlash(name)))
	return candidates, nil
}

func (r *PathResolver) pluginsDir() string {
	dir := r.PluginsDir
	if dir == "" {
		dir = DefaultPluginsDir
	}
	return r.abs(dir)
}

func (r *PathResolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.AppRoot, p)
}

// readError wraps a failed read so callers can match both ErrPluginRead and the cause.
func readError(p string, err error) error {
	return fmt.Errorf("%w: %s: %w", errors.ErrPluginRead, p, err)
}

// isNotExist reports whether err means the file is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
