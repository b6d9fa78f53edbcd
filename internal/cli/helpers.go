package cli

import (
	"fmt"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/config"
	"github.com/cperrin88/testhelper/pkg/plugin"
	"github.com/fatih/color"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
	AppRoot      *string
)

// loadConfig loads the configuration, applies CLI flag overrides and
// configures logging and colors accordingly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.ColorOutput = false
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if AppRoot != nil && *AppRoot != "" {
		cfg.Settings.AppRoot = *AppRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.InitLogger(cfg.Settings.LogLevel, logFormat(cfg))
	if !cfg.Settings.ColorOutput {
		color.NoColor = true
	}

	return cfg, nil
}

// Structured output keeps logs structured too.
func logFormat(cfg *config.Config) logger.OutputFormat {
	if cfg.Settings.OutputFormat == config.OutputJSON {
		return logger.FormatJSON
	}
	return logger.FormatText
}

// appRoot returns the application root. A --app-root flag is taken as given,
// a configured app_root is relative to the config file.
func appRoot(cfg *config.Config) string {
	if AppRoot != nil && *AppRoot != "" {
		return *AppRoot
	}
	return cfg.GetAppRoot(getConfigPath())
}

// newInspector builds the resolver and inspector described by the configuration.
func newInspector(cfg *config.Config) (*plugin.Inspector, *plugin.PathResolver, error) {
	set, err := cfg.HookSet()
	if err != nil {
		return nil, nil, err
	}

	resolver := plugin.NewPathResolver(appRoot(cfg), cfg.Plugins)

	opts := make([]plugin.Option, 0, len(cfg.Checks))
	for _, name := range cfg.CheckNames() {
		opts = append(opts, plugin.WithCheck(name, plugin.NewScriptCheck(name, cfg.Checks[string(name)])))
	}

	logger.Debug("Inspector configured", logger.Fields{
		"app_root": resolver.AppRoot,
		"hooks":    set.Strings(),
		"scripts":  len(opts),
	})

	return plugin.NewInspector(resolver, set, opts...), resolver, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	return config.GetDefaultConfigPath()
}
