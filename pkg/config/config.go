// Package config provides configuration management for testhelper.
// It handles loading, validating, and saving the YAML file that names the
// application root, the framework version, the hooks to inspect, explicit
// plugin paths, and scripted hook checks.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/fsutil"
	"github.com/cperrin88/testhelper/pkg/hooks"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings"`

	// Hooks overrides the hook list derived from the framework version.
	Hooks []string `yaml:"hooks,omitempty"`

	// Plugins maps plugin names to directories or archives, relative to the app root.
	Plugins map[string]string `yaml:"plugins,omitempty"`

	// Checks maps hook names to Tengo scripts that replace the built-in check.
	Checks map[string]string `yaml:"checks,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Application settings
	AppRoot          string `yaml:"app_root"`
	FrameworkVersion string `yaml:"framework_version,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json, yaml
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
	ColorOutput  bool   `yaml:"color_output"`
}

const (
	// DefaultConfigFile is the configuration file looked up in the working directory.
	DefaultConfigFile = "testhelper.yaml"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// Supported output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			AppRoot:      ".",
			OutputFormat: OutputText,
			LogLevel:     "info",
			ColorOutput:  true,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
// Keys absent from the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()

	if err := fsutil.WriteFileAtomic(absPath, buf.Bytes(), fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	if _, err := c.HookSet(); err != nil {
		return err
	}
	for name := range c.Checks {
		if _, err := hooks.Parse([]string{name}); err != nil {
			return errors.Wrapf(err, "checks")
		}
	}
	for name, path := range c.Plugins {
		if strings.TrimSpace(name) == "" {
			return errors.Wrap(errors.ErrEmptyPluginName, "plugins")
		}
		if strings.TrimSpace(path) == "" {
			return errors.Wrapf(errors.ErrInvalidConfigPath, "plugins: %s has an empty path", name)
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	validFormats := map[string]bool{OutputText: true, OutputJSON: true, OutputYAML: true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	if s.FrameworkVersion != "" {
		if _, err := hooks.ForFrameworkVersion(s.FrameworkVersion); err != nil {
			return err
		}
	}
	return nil
}

// HookSet returns the hooks to inspect. An explicit hooks list wins over the
// list derived from the framework version.
func (c *Config) HookSet() (hooks.Set, error) {
	if len(c.Hooks) > 0 {
		return hooks.Parse(c.Hooks)
	}
	return hooks.ForFrameworkVersion(c.Settings.FrameworkVersion)
}

// CheckNames returns the hooks with a scripted check, sorted.
func (c *Config) CheckNames() []hooks.Name {
	names := make([]hooks.Name, 0, len(c.Checks))
	for name := range c.Checks {
		names = append(names, hooks.Name(name))
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GetAppRoot returns the application root, resolved against the config file's directory
// when relative.
func (c *Config) GetAppRoot(configPath string) string {
	root := c.Settings.AppRoot
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) || configPath == "" {
		return filepath.Clean(root)
	}
	return filepath.Join(filepath.Dir(configPath), root)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return DefaultConfigFile
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.AppRoot == "" {
		c.Settings.AppRoot = defaults.Settings.AppRoot
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
