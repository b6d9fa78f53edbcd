package cli

// Default values for CLI output.
const (
	// HookColumnWidth is the width of the hook name column in text output.
	HookColumnWidth = 12
	// StateColumnWidth is the width of the exists column in text output.
	StateColumnWidth = 7
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)
