package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/plugin"
	"github.com/spf13/cobra"
)

// NewPluginsCmd creates the plugins command with subcommands.
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect and patch plugins",
		Long:  "Detect which hooks framework plugins implement and declare their enabled flags",
	}

	cmd.AddCommand(
		newPluginsHooksCmd(),
		newPluginsListCmd(),
		newPluginsCheckCmd(),
		newPluginsPatchCmd(),
	)

	return cmd
}

func newPluginsHooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List the hooks that are inspected",
		Long: `List the hook names checked for every plugin.

The list comes from the hooks setting when present, otherwise from the
configured framework version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginsHooks(cmd.OutOrStdout())
		},
	}
}

func newPluginsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known plugins",
		Long:  "List plugins found in the configuration, the composer manifest and the plugins directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginsList(cmd)
		},
	}
}

func newPluginsCheckCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check [NAME...]",
		Short: "Probe plugins for hook support",
		Long: `Probe plugins for the hooks they implement and the flags their plugin
class declares. Plugins are named as they are loaded, e.g. "Tools" or
"Vendor/Tools".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsCheck(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Check every known plugin")

	return cmd
}

func newPluginsPatchCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "patch NAME",
		Short: "Declare hook flags in a plugin class",
		Long: `Update the plugin class so every inspected hook has an enabled flag.

Flags for hooks the plugin implements are switched on, missing flags are added
with the detected value. Without --write the change is printed as a diff.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsPatch(cmd, args[0], write)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the patched class instead of printing a diff")

	return cmd
}

func runPluginsHooks(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	set, err := cfg.HookSet()
	if err != nil {
		return err
	}
	for _, name := range set {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", name, name.FlagProperty())
	}
	return nil
}

func runPluginsList(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, resolver, err := newInspector(cfg)
	if err != nil {
		return err
	}

	names, err := resolver.Names(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runPluginsCheck(cmd *cobra.Command, names []string, all bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inspector, resolver, err := newInspector(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if all {
		if names, err = resolver.Names(ctx); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return errors.ErrNoPluginsSpecified
	}

	probed, err := inspector.Probe(ctx, names...)
	if err != nil {
		return err
	}

	results := make([]*plugin.ProbeResult, 0, len(probed))
	for _, result := range probed {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Plugin < results[j].Plugin })

	return writeResults(cmd.OutOrStdout(), cfg.Settings.OutputFormat, results)
}

func runPluginsPatch(cmd *cobra.Command, name string, write bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inspector, resolver, err := newInspector(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	loc, err := resolver.Resolve(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = loc.Close() }()

	patcher := plugin.NewPatcher(inspector.Hooks(), inspector.Scanner())
	change, err := plugin.Plan(ctx, inspector, patcher, loc)
	if err != nil {
		return err
	}

	if !change.Changed() {
		logger.Info("Plugin class is up to date", logger.Fields{"plugin": name, "path": change.Path()})
		return nil
	}

	if !write {
		diff, err := change.Diff()
		if err != nil {
			return fmt.Errorf("failed to render diff: %w", err)
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	}

	return change.Apply()
}
