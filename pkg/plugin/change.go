package plugin

import (
	"context"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/fsutil"
	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each diff hunk.
const diffContext = 3

// Change is the patched plugin class computed for a resolved plugin.
type Change struct {
	Location *Location
	Result   *ProbeResult
	Before   string
	After    string
}

// Plan probes loc and computes the patched plugin class without writing anything.
func Plan(ctx context.Context, inspector *Inspector, patcher *Patcher, loc *Location) (*Change, error) {
	result, err := inspector.ProbeLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	target, err := loadTarget(loc)
	if err != nil {
		return nil, err
	}

	return &Change{
		Location: loc,
		Result:   result,
		Before:   target.ClassSource,
		After:    patcher.Patch(loc.Name, target.ClassSource, result),
	}, nil
}

// Path returns the on-disk path of the plugin class.
func (c *Change) Path() string {
	return c.Location.DisplayPath(c.Location.PluginClass())
}

// Changed reports whether patching altered the class.
func (c *Change) Changed() bool {
	return c.Before != c.After
}

// Diff renders the change as a unified diff. An unchanged class yields "".
func (c *Change) Diff() (string, error) {
	if !c.Changed() {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(c.Before),
		B:        difflib.SplitLines(c.After),
		FromFile: "a/" + c.Location.PluginClass(),
		ToFile:   "b/" + c.Location.PluginClass(),
		Context:  diffContext,
	})
}

// Apply writes the patched class back to the plugin directory.
func (c *Change) Apply() error {
	if !c.Changed() {
		return nil
	}
	if !c.Location.Writable {
		return errors.Wrapf(errors.ErrReadOnlyLocation, "%s", c.Location.Root)
	}

	p := c.Path()
	if err := fsutil.WriteFileAtomic(p, []byte(c.After), fsutil.FileModeDefault); err != nil {
		return errors.Wrapf(errors.ErrPluginWrite, "%s: %v", p, err)
	}

	logger.Info("Patched plugin class", logger.Fields{"plugin": c.Location.Name, "path": p})
	return nil
}
