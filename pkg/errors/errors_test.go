package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "reading Plugin.php",
			expected: "",
		},
		{
			name:     "wrap sentinel",
			err:      ErrPluginRead,
			msg:      "reading Plugin.php",
			expected: "reading Plugin.php: failed to read plugin files",
		},
		{
			name:     "wrap with empty message",
			err:      errors.New("permission denied"),
			msg:      "",
			expected: ": permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrPluginNotFound, "resolving %s for %s", "Tools", "check")
	if err.Error() != "resolving Tools for check: plugin not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Expected wrapped error to contain ErrPluginNotFound")
	}
	if Wrapf(nil, "unused %d", 1) != nil {
		t.Errorf("Expected nil for nil error")
	}
}

func TestDetailHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"plugin not found", ErrPluginNotFoundWithName("Tools", []string{"plugins"}), ErrPluginNotFound, "Tools"},
		{"invalid hook", ErrInvalidHookNameWithDetails("Bad-Hook"), ErrInvalidHookName, "'Bad-Hook'"},
		{"invalid format", ErrInvalidOutputFormatWithDetails("xml"), ErrInvalidOutputFormat, "text, json, yaml"},
		{"invalid level", ErrInvalidLogLevelWithDetails("trace"), ErrInvalidLogLevel, "'trace'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("Expected %v to wrap %v", tt.err, tt.sentinel)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Expected %q to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
