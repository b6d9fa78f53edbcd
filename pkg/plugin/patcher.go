package plugin

import (
	"fmt"
	"strings"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/hooks"
)

const skeletonTemplate = `<?php

namespace %s;

use Cake\Core\BasePlugin;

class Plugin extends BasePlugin {
}
`

// Skeleton returns a minimal main class for the plugin. Vendor/Name plugins
// get the Vendor\Name namespace.
func Skeleton(pluginName string) string {
	return fmt.Sprintf(skeletonTemplate, strings.ReplaceAll(pluginName, "/", `\`))
}

// Patcher rewrites plugin class source so it declares the hook flags.
type Patcher struct {
	hooks   hooks.Set
	scanner SourceScanner
}

// NewPatcher creates a Patcher. A nil scanner selects the RegexScanner.
func NewPatcher(set hooks.Set, scanner SourceScanner) *Patcher {
	if scanner == nil {
		scanner = NewRegexScanner()
	}
	return &Patcher{hooks: set, scanner: scanner}
}

// Patch returns content updated for result. Empty content starts from Skeleton.
//
// For each hook in order: a flag declared false is flipped to true when the
// hook's artifact exists, and a hook whose artifact is missing and whose flag
// is undeclared gets a new property right after the class opening. Existing
// declarations are never removed and true never becomes false. Without a
// class declaration the insertion step is skipped and the flips still apply.
func (p *Patcher) Patch(pluginName, content string, result *ProbeResult) string {
	if content == "" {
		content = Skeleton(pluginName)
	}

	var pending []HookState
	for _, name := range p.hooks {
		state, ok := result.Hook(name)
		if !ok {
			continue
		}

		if state.Exists && state.Enabled != nil && !*state.Enabled {
			content = p.scanner.EnableFlag(content, name)
		}

		if !state.Exists && state.Enabled == nil {
			// The result may predate an earlier patch of this content.
			if _, declared := p.scanner.FlagValue(content, name); !declared {
				pending = append(pending, state)
			}
		}
	}

	if len(pending) == 0 {
		return content
	}

	src := ParseClassSource(content)
	at, ok := src.BodyStart()
	if !ok {
		logger.Warn("No plugin class declaration found, skipping property insertion", logger.Fields{
			"plugin": pluginName,
		})
		return content
	}

	var block []string
	for i, state := range pending {
		if i > 0 || !src.lineIs(at+1, "{") {
			block = append(block, "")
		}
		block = append(block, propertyLines(state)...)
	}
	src.Insert(at, block...)

	return src.String()
}

func propertyLines(state HookState) []string {
	return []string{
		"\t/**",
		"\t * @var bool",
		"\t */",
		fmt.Sprintf("\tprotected $%s = %t;", state.Name.FlagProperty(), state.Exists),
	}
}
