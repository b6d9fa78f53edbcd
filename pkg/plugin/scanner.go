package plugin

import (
	"fmt"
	"regexp"

	"github.com/cperrin88/testhelper/pkg/hooks"
)

// SourceScanner answers questions about plugin class source text.
// RegexScanner is the only implementation; a structural parser can replace it
// without touching the checks or the patcher.
type SourceScanner interface {
	// DeclaresMethod reports whether source declares a method matching sig.
	DeclaresMethod(source string, sig MethodSignature) bool
	// FlagValue returns the literal value of the hook's flag property and whether it is declared.
	FlagValue(source string, hook hooks.Name) (enabled bool, found bool)
	// EnableFlag rewrites a flag property declared false to true.
	EnableFlag(source string, hook hooks.Name) string
}

// MethodSignature is a hook method name and its first parameter.
type MethodSignature struct {
	Method    string
	ParamType string
	ParamName string
}

// Hook method signatures of the framework's plugin interface.
var (
	RoutesSignature     = MethodSignature{Method: "routes", ParamType: "RouteBuilder", ParamName: "routes"}
	MiddlewareSignature = MethodSignature{Method: "middleware", ParamType: "MiddlewareQueue", ParamName: "middleware"}
	ServicesSignature   = MethodSignature{Method: "services", ParamType: "ContainerInterface", ParamName: "container"}
	EventsSignature     = MethodSignature{Method: "events", ParamType: "EventManagerInterface", ParamName: "eventManager"}
)

// flagPrefix matches a visibility scoped, optionally bool typed property up to its name.
const flagPrefix = `(?:public|protected|private)\s+(?:\??bool\s+)?\$`

// RegexScanner scans source text with regular expressions.
type RegexScanner struct{}

// NewRegexScanner creates a RegexScanner.
func NewRegexScanner() *RegexScanner {
	return &RegexScanner{}
}

// DeclaresMethod implements SourceScanner. The parameter type may be namespace qualified.
func (s *RegexScanner) DeclaresMethod(source string, sig MethodSignature) bool {
	pattern := fmt.Sprintf(`public\s+function\s+%s\s*\(\s*\\?(?:\w+\\)*%s\s+\$%s`,
		regexp.QuoteMeta(sig.Method), regexp.QuoteMeta(sig.ParamType), regexp.QuoteMeta(sig.ParamName))
	return regexp.MustCompile(pattern).MatchString(source)
}

// FlagValue implements SourceScanner. Only the literal token false reads as
// disabled; every other token reads as enabled.
func (s *RegexScanner) FlagValue(source string, hook hooks.Name) (bool, bool) {
	pattern := flagPrefix + regexp.QuoteMeta(hook.FlagProperty()) + `\s*=\s*(\w+)\s*;`
	m := regexp.MustCompile(pattern).FindStringSubmatch(source)
	if m == nil {
		return false, false
	}
	return m[1] != "false", true
}

// EnableFlag implements SourceScanner.
func (s *RegexScanner) EnableFlag(source string, hook hooks.Name) string {
	pattern := `(` + flagPrefix + regexp.QuoteMeta(hook.FlagProperty()) + `\s*=\s*)false(\s*;)`
	return regexp.MustCompile(pattern).ReplaceAllString(source, "${1}true${2}")
}
