// Package errors defines the sentinel errors shared by testhelper packages
// and small helpers for wrapping them with context.
package errors

import (
	"errors"
	"fmt"
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath         = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath       = fmt.Errorf("invalid config file path")
	ErrConfigParse             = fmt.Errorf("failed to parse config")
	ErrConfigValidation        = fmt.Errorf("invalid configuration")
	ErrConfigEncode            = fmt.Errorf("failed to encode config")
	ErrConfigDirectory         = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate        = fmt.Errorf("failed to create config file")
	ErrConfigFileRename        = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileExists        = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigMarshal           = fmt.Errorf("failed to marshal config to YAML")
	ErrUnknownConfigKey        = fmt.Errorf("unknown configuration key")
	ErrInvalidBoolValue        = fmt.Errorf("invalid boolean value")
	ErrInvalidOutputFormat     = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel         = fmt.Errorf("invalid log level")
	ErrInvalidFrameworkVersion = fmt.Errorf("invalid framework version")

	// Plugin errors.
	ErrEmptyPluginName    = fmt.Errorf("plugin name cannot be empty")
	ErrPluginNotFound     = fmt.Errorf("plugin not found")
	ErrPluginRead         = fmt.Errorf("failed to read plugin files")
	ErrPluginWrite        = fmt.Errorf("failed to write plugin class")
	ErrReadOnlyLocation   = fmt.Errorf("plugin location is read-only")
	ErrNoPluginsSpecified = fmt.Errorf("no plugins specified and --all flag not used")

	// Hook errors.
	ErrInvalidHookName = fmt.Errorf("invalid hook name")
	ErrDuplicateHook   = fmt.Errorf("duplicate hook name")
	ErrHookScript      = fmt.Errorf("hook check script error")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrPluginNotFoundWithName returns ErrPluginNotFound naming the plugin and where it was searched.
func ErrPluginNotFoundWithName(name string, searched []string) error {
	return fmt.Errorf("%w: %s (searched: %v)", ErrPluginNotFound, name, searched)
}

// ErrInvalidHookNameWithDetails returns ErrInvalidHookName for the given value.
func ErrInvalidHookNameWithDetails(name string) error {
	return fmt.Errorf("%w: '%s', must start with a lowercase letter and contain only letters and digits", ErrInvalidHookName, name)
}

// ErrInvalidOutputFormatWithDetails returns ErrInvalidOutputFormat with the valid options.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json, yaml", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails returns ErrInvalidLogLevel with the valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}
