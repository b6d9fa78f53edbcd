package plugin

import (
	"regexp"
	"strings"
)

// classSignature matches the main plugin class declaration line.
var classSignature = regexp.MustCompile(`\bclass\s+Plugin\s+extends\s+\\?(?:\w+\\)*BasePlugin\b`)

// ClassSource is plugin class text split into lines, keeping its line ending.
type ClassSource struct {
	Lines []string
	EOL   string
}

// ParseClassSource splits content into lines. CRLF files keep CRLF.
func ParseClassSource(content string) *ClassSource {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	return &ClassSource{Lines: strings.Split(content, eol), EOL: eol}
}

// String joins the lines back together.
func (s *ClassSource) String() string {
	return strings.Join(s.Lines, s.EOL)
}

// BodyStart returns the index of the first line inside the class body: the
// line after the last class declaration, or after the lone brace line that
// follows it. ok is false when no declaration is present.
func (s *ClassSource) BodyStart() (int, bool) {
	pos := -1
	for i, line := range s.Lines {
		if classSignature.MatchString(line) {
			pos = i
		}
	}
	if pos < 0 {
		return 0, false
	}
	if s.lineIs(pos+1, "{") {
		pos++
	}
	return pos + 1, true
}

// Insert splices lines in before index at.
func (s *ClassSource) Insert(at int, lines ...string) {
	if at < 0 {
		at = 0
	}
	if at > len(s.Lines) {
		at = len(s.Lines)
	}
	out := make([]string, 0, len(s.Lines)+len(lines))
	out = append(out, s.Lines[:at]...)
	out = append(out, lines...)
	out = append(out, s.Lines[at:]...)
	s.Lines = out
}

// lineIs reports whether line i exists and equals want after trimming.
func (s *ClassSource) lineIs(i int, want string) bool {
	return i >= 0 && i < len(s.Lines) && strings.TrimSpace(s.Lines[i]) == want
}
