package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cperrin88/testhelper/pkg/errors"
)

// HooksKey addresses the hooks list through GetValue and SetValue as a comma separated string.
const HooksKey = "hooks"

// SetValue sets a configuration value by key.
// Supported keys:
//   - app_root: string - Application root directory
//   - framework_version: string - Framework version used to derive the hook list
//   - output_format: string - Output format (text, json, yaml)
//   - log_level: string - Logging level (debug, info, warn, error)
//   - color_output: bool - Whether to use colored output
//   - hooks: string - Comma separated hook list, empty to derive from the framework version
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "app_root":
		c.Settings.AppRoot = value
	case "framework_version":
		c.Settings.FrameworkVersion = value
	case "output_format":
		c.Settings.OutputFormat = value
	case "log_level":
		c.Settings.LogLevel = value
	case "color_output":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w for %s: %s", errors.ErrInvalidBoolValue, key, value)
		}
		c.Settings.ColorOutput = boolVal
	case HooksKey:
		c.Hooks = splitList(value)
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return c.Validate()
}

// GetValue returns the value for key as a string.
func (c *Config) GetValue(key string) (string, error) {
	if key == HooksKey {
		return strings.Join(c.Hooks, ","), nil
	}
	value, ok := c.ToMap()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return value, nil
}

// ToMap returns the settings keyed by their YAML names.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "framework_version,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		switch fieldValue.Kind() {
		case reflect.Bool:
			result[yamlKey] = strconv.FormatBool(fieldValue.Bool())
		case reflect.String:
			result[yamlKey] = fieldValue.String()
		default:
			result[yamlKey] = fmt.Sprintf("%v", fieldValue.Interface())
		}
	}

	return result
}

// Keys returns the keys accepted by GetValue and SetValue, sorted.
func (c *Config) Keys() []string {
	keys := []string{HooksKey}
	for key := range c.ToMap() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
