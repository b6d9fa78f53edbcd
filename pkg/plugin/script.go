package plugin

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/cperrin88/testhelper/pkg/hooks"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// scriptModules are the stdlib modules available to check scripts. "os" is
// left out so scripts stay read-only.
var scriptModules = []string{"text", "fmt", "json", "enum", "math", "times"}

// ScriptCheck is a hook check written in Tengo. The script reads the plugin
// through the builtin "plugin" module and reports by defining `exists`:
//
//	plugin := import("plugin")
//	text := import("text")
//	exists := text.re_match(`function services\(`, plugin.class_source)
type ScriptCheck struct {
	Hook   hooks.Name
	Source []byte
}

// NewScriptCheck creates a check for hook from Tengo source.
func NewScriptCheck(hook hooks.Name, source string) *ScriptCheck {
	return &ScriptCheck{Hook: hook, Source: []byte(source)}
}

// Exists implements Check.
func (c *ScriptCheck) Exists(ctx context.Context, t *Target) (bool, error) {
	moduleMap := stdlib.GetModuleMap(scriptModules...)
	moduleMap.AddBuiltinModule("plugin", pluginModule(t))

	script := tengo.NewScript(c.Source)
	script.SetImports(moduleMap)

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", c.Hook, errors.ErrHookScript, err)
	}

	exists := compiled.Get("exists").Bool()
	logger.Debug("Hook check script finished", logger.Fields{
		"hook":   string(c.Hook),
		"plugin": t.Location.Name,
		"exists": exists,
	})
	return exists, nil
}

func pluginModule(t *Target) map[string]tengo.Object {
	classExists := tengo.FalseValue
	if t.ClassExists {
		classExists = tengo.TrueValue
	}

	return map[string]tengo.Object{
		"name":         &tengo.String{Value: t.Location.Name},
		"class_exists": classExists,
		"class_source": &tengo.String{Value: t.ClassSource},
		"config_dir":   &tengo.String{Value: t.Location.ConfigDir},
		"class_dir":    &tengo.String{Value: t.Location.ClassDir},
		"exists": &tengo.UserFunction{
			Name: "exists",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				p, err := pathArg(args)
				if err != nil {
					return nil, err
				}
				if _, err := fs.Stat(t.Location.FS, p); err != nil {
					if isNotExist(err) {
						return tengo.FalseValue, nil
					}
					return nil, readError(p, err)
				}
				return tengo.TrueValue, nil
			},
		},
		"read": &tengo.UserFunction{
			Name: "read",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				p, err := pathArg(args)
				if err != nil {
					return nil, err
				}
				data, err := fs.ReadFile(t.Location.FS, p)
				if err != nil {
					if isNotExist(err) {
						return tengo.UndefinedValue, nil
					}
					return nil, readError(p, err)
				}
				return &tengo.String{Value: string(data)}, nil
			},
		},
	}
}

// pathArg extracts a single plugin-relative path argument.
func pathArg(args []tengo.Object) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	p, ok := tengo.ToString(args[0])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: "path", Expected: "string", Found: args[0].TypeName()}
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid plugin path %q", p)
	}
	return p, nil
}
