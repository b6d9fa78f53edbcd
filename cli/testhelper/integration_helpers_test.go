//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cperrin88/testhelper/internal/logger"
	"github.com/cperrin88/testhelper/pkg/config"
	"github.com/stretchr/testify/require"
)

const toolsPluginClass = `<?php
namespace Tools;

use Cake\Core\BasePlugin;
use Cake\Routing\RouteBuilder;

class Plugin extends BasePlugin
{
    /**
     * @var bool
     */
    protected $bootstrapEnabled = false;

    public function routes(RouteBuilder $routes): void
    {
    }
}
`

// runCLI executes the root command with args and returns what it wrote to stdout.
// Log output is captured separately and returned as the second value.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	logger.SetTestOutput(&logs)
	defer logger.UnsetTestOutput()

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

// writeFiles creates files below root.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// setupApp creates an application with a Tools plugin and an empty Blank plugin
// and returns the path of a config file pointing at it.
func setupApp(t *testing.T, mutate func(*config.Config)) (string, string) {
	t.Helper()
	root := t.TempDir()
	appRoot := filepath.Join(root, "app")

	writeFiles(t, appRoot, map[string]string{
		"plugins/Tools/config/bootstrap.php":                 "<?php\nConfigure::write('Tools.enabled', true);\n",
		"plugins/Tools/src/Plugin.php":                       toolsPluginClass,
		"plugins/Tools/src/Command/Cleanup/PruneCommand.php": "<?php",
		"plugins/Blank/README.md":                            "nothing here",
	})

	cfg := config.DefaultConfig()
	cfg.Settings.AppRoot = "app"
	if mutate != nil {
		mutate(cfg)
	}
	cfgPath := filepath.Join(root, config.DefaultConfigFile)
	require.NoError(t, cfg.SaveConfig(cfgPath))

	return cfgPath, appRoot
}
