package plugin

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/cperrin88/testhelper/pkg/hooks"
)

// phpOpenTag is the whole content of a stub file.
const phpOpenTag = "<?php"

// ConsoleDirs are the class directories holding console commands.
var ConsoleDirs = []string{"Command", "Shell"}

// Target is what a Check looks at: a plugin location and its main class.
type Target struct {
	Location    *Location
	ClassExists bool
	ClassSource string
}

// Check decides whether a plugin provides the artifact backing a hook.
type Check interface {
	Exists(ctx context.Context, t *Target) (bool, error)
}

// CheckFunc adapts a function to Check.
type CheckFunc func(ctx context.Context, t *Target) (bool, error)

// Exists implements Check.
func (f CheckFunc) Exists(ctx context.Context, t *Target) (bool, error) {
	return f(ctx, t)
}

// DefaultChecks returns the built-in checks keyed by hook.
func DefaultChecks(scanner SourceScanner) map[hooks.Name]Check {
	return map[hooks.Name]Check{
		hooks.Bootstrap:  ConfigFileCheck("bootstrap.php"),
		hooks.Console:    SourceTreeCheck(ConsoleDirs...),
		hooks.Routes:     AnyOf(ConfigFileCheck("routes.php"), ClassMethodCheck(scanner, RoutesSignature)),
		hooks.Middleware: ClassMethodCheck(scanner, MiddlewareSignature),
		hooks.Services:   ClassMethodCheck(scanner, ServicesSignature),
		hooks.Events:     ClassMethodCheck(scanner, EventsSignature),
	}
}

// ConfigFileCheck passes when the config file exists and is more than a bare open tag.
func ConfigFileCheck(name string) Check {
	return CheckFunc(func(_ context.Context, t *Target) (bool, error) {
		p := t.Location.ConfigFile(name)
		data, err := fs.ReadFile(t.Location.FS, p)
		if err != nil {
			if isNotExist(err) {
				return false, nil
			}
			return false, readError(p, err)
		}
		return strings.TrimSpace(string(data)) != phpOpenTag, nil
	})
}

// SourceTreeCheck passes as soon as any .php file is found below one of the class subdirectories.
func SourceTreeCheck(dirs ...string) Check {
	return CheckFunc(func(ctx context.Context, t *Target) (bool, error) {
		for _, dir := range dirs {
			found, err := containsSource(ctx, t.Location.FS, t.Location.ClassFile(dir))
			if err != nil || found {
				return found, err
			}
		}
		return false, nil
	})
}

func containsSource(ctx context.Context, fsys fs.FS, root string) (bool, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, readError(root, err)
	}
	if !info.IsDir() {
		return false, nil
	}

	found := false
	err = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".php") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, readError(root, err)
	}
	return found, nil
}

// ClassMethodCheck passes when the main class exists and declares the method.
func ClassMethodCheck(scanner SourceScanner, sig MethodSignature) Check {
	return CheckFunc(func(_ context.Context, t *Target) (bool, error) {
		return t.ClassExists && scanner.DeclaresMethod(t.ClassSource, sig), nil
	})
}

// AnyOf passes when the first of checks passes, evaluating them in order.
func AnyOf(checks ...Check) Check {
	return CheckFunc(func(ctx context.Context, t *Target) (bool, error) {
		for _, c := range checks {
			ok, err := c.Exists(ctx, t)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	})
}
