package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cperrin88/testhelper/pkg/config"
	"github.com/cperrin88/testhelper/pkg/plugin"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// writeResults renders probe results in the configured output format.
func writeResults(w io.Writer, format string, results []*plugin.ProbeResult) error {
	switch format {
	case config.OutputJSON:
		data, err := json.MarshalIndent(results, "", strings.Repeat(" ", TabWidth))
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case config.OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(config.YAMLIndent)
		if err := encoder.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return encoder.Close()
	default:
		writeResultsText(w, results)
		return nil
	}
}

func writeResultsText(w io.Writer, results []*plugin.ProbeResult) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}

		class := green("class found")
		if !result.PluginClassExists {
			class = yellow("class missing")
		}
		_, _ = fmt.Fprintf(w, "%s  %s (%s)\n", bold(result.Plugin), gray(result.PluginClassPath), class)
		_, _ = fmt.Fprintf(w, "  %-*s %-*s %s\n", HookColumnWidth, "HOOK", StateColumnWidth, "EXISTS", "ENABLED")

		for _, h := range result.Hooks {
			exists := red(pad("no", StateColumnWidth))
			if h.Exists {
				exists = green(pad("yes", StateColumnWidth))
			}

			var enabled string
			switch {
			case h.Enabled == nil:
				enabled = gray("unset")
			case *h.Enabled:
				enabled = green("true")
			default:
				enabled = yellow("false")
			}

			// A hook that exists but is switched off is the case worth a patch.
			marker := ""
			if h.Exists && h.Enabled != nil && !*h.Enabled {
				marker = " " + yellow("(patch to enable)")
			}

			_, _ = fmt.Fprintf(w, "  %-*s %s %s%s\n", HookColumnWidth, h.Name, exists, enabled, marker)
		}
	}
}

// pad left-aligns s before coloring so escape codes do not break the columns.
func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
