package plugin

import "github.com/cperrin88/testhelper/pkg/hooks"

// HookState is the probe outcome for one hook. Enabled is nil unless the
// plugin class declares the hook's flag property with a literal value.
type HookState struct {
	Name    hooks.Name `json:"name" yaml:"name"`
	Exists  bool       `json:"exists" yaml:"exists"`
	Enabled *bool      `json:"enabled" yaml:"enabled"`
}

// ProbeResult describes one plugin's hook surface.
type ProbeResult struct {
	Plugin            string      `json:"plugin" yaml:"plugin"`
	PluginClassPath   string      `json:"pluginClass" yaml:"plugin_class"`
	PluginClassExists bool        `json:"pluginClassExists" yaml:"plugin_class_exists"`
	Hooks             []HookState `json:"hooks" yaml:"hooks"`
}

// Hook returns the state recorded for name.
func (r *ProbeResult) Hook(name hooks.Name) (HookState, bool) {
	if r == nil {
		return HookState{}, false
	}
	for _, h := range r.Hooks {
		if h.Name == name {
			return h, true
		}
	}
	return HookState{}, false
}
