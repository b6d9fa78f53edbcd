// Package plugin inspects framework plugins on disk and patches their main
// class to declare the hooks they provide.
//
// The Inspector never executes plugin code. It classifies each hook by the
// presence of files and by pattern matching the plugin class source, and the
// Patcher turns a probe result into updated class source.
package plugin

import (
	"context"
	"io/fs"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/hooks"
)

// Inspector probes plugins for hook support.
type Inspector struct {
	resolver Resolver
	hooks    hooks.Set
	scanner  SourceScanner
	checks   map[hooks.Name]Check
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithScanner replaces the source scanner used by the built-in checks and flag detection.
func WithScanner(s SourceScanner) Option {
	return func(i *Inspector) {
		i.scanner = s
	}
}

// WithCheck overrides the check used for a hook.
func WithCheck(name hooks.Name, c Check) Option {
	return func(i *Inspector) {
		i.checks[name] = c
	}
}

// NewInspector creates an Inspector for the given hook set.
func NewInspector(resolver Resolver, set hooks.Set, opts ...Option) *Inspector {
	i := &Inspector{
		resolver: resolver,
		hooks:    set,
		scanner:  NewRegexScanner(),
		checks:   make(map[hooks.Name]Check),
	}
	for _, opt := range opts {
		opt(i)
	}

	// Built-ins fill the gaps after options so they pick up the final scanner.
	for name, c := range DefaultChecks(i.scanner) {
		if _, ok := i.checks[name]; !ok {
			i.checks[name] = c
		}
	}
	return i
}

// Hooks returns the hook names the inspector reports on, in order.
func (i *Inspector) Hooks() hooks.Set {
	return append(hooks.Set{}, i.hooks...)
}

// Scanner returns the source scanner in use.
func (i *Inspector) Scanner() SourceScanner {
	return i.scanner
}

// Probe inspects every named plugin. The first failing plugin aborts the probe.
func (i *Inspector) Probe(ctx context.Context, names ...string) (map[string]*ProbeResult, error) {
	results := make(map[string]*ProbeResult, len(names))
	for _, name := range names {
		result, err := i.ProbePlugin(ctx, name)
		if err != nil {
			return nil, err
		}
		results[name] = result
	}
	return results, nil
}

// ProbePlugin resolves and inspects a single plugin.
func (i *Inspector) ProbePlugin(ctx context.Context, name string) (*ProbeResult, error) {
	loc, err := i.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = loc.Close() }()

	return i.ProbeLocation(ctx, loc)
}

// ProbeLocation inspects an already resolved plugin.
func (i *Inspector) ProbeLocation(ctx context.Context, loc *Location) (*ProbeResult, error) {
	target, err := loadTarget(loc)
	if err != nil {
		return nil, err
	}

	result := &ProbeResult{
		Plugin:            loc.Name,
		PluginClassPath:   loc.DisplayPath(loc.PluginClass()),
		PluginClassExists: target.ClassExists,
		Hooks:             make([]HookState, 0, len(i.hooks)),
	}

	for _, name := range i.hooks {
		state := HookState{Name: name}

		if c, ok := i.checks[name]; ok {
			exists, err := c.Exists(ctx, target)
			if err != nil {
				return nil, err
			}
			state.Exists = exists
		}

		if target.ClassExists {
			if enabled, found := i.scanner.FlagValue(target.ClassSource, name); found {
				state.Enabled = &enabled
			}
		}

		logger.Debug("Probed hook", logger.Fields{
			"plugin":  loc.Name,
			"hook":    string(name),
			"exists":  state.Exists,
			"enabled": formatEnabled(state.Enabled),
		})
		result.Hooks = append(result.Hooks, state)
	}

	return result, nil
}

func loadTarget(loc *Location) (*Target, error) {
	target := &Target{Location: loc}
	p := loc.PluginClass()
	data, err := fs.ReadFile(loc.FS, p)
	if err != nil {
		if isNotExist(err) {
			return target, nil
		}
		return nil, readError(p, err)
	}
	target.ClassExists = true
	target.ClassSource = string(data)
	return target, nil
}

func formatEnabled(enabled *bool) string {
	switch {
	case enabled == nil:
		return "unknown"
	case *enabled:
		return "true"
	default:
		return "false"
	}
}
