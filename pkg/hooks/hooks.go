// Package hooks describes the extension points a framework plugin may implement
// and maps framework versions to the list of hooks the framework recognises.
package hooks

import (
	"regexp"
	"strings"

	"github.com/cperrin88/testhelper/pkg/errors"
	"github.com/hashicorp/go-version"
)

// Name identifies a plugin hook.
type Name string

// Hooks known to the framework.
const (
	Bootstrap  Name = "bootstrap"
	Console    Name = "console"
	Middleware Name = "middleware"
	Routes     Name = "routes"
	Services   Name = "services"
	Events     Name = "events"
)

// DefaultNames is the valid hook list of the oldest supported framework release.
var DefaultNames = Set{Bootstrap, Console, Middleware, Routes}

var validName = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)

// FlagProperty returns the name of the plugin class property toggling the hook.
func (n Name) FlagProperty() string {
	return string(n) + "Enabled"
}

// Set is an ordered list of hook names without duplicates.
type Set []Name

// Parse validates raw hook names and returns them as a Set in the given order.
func Parse(names []string) (Set, error) {
	set := make(Set, 0, len(names))
	seen := make(map[Name]bool, len(names))
	for _, raw := range names {
		name := Name(strings.TrimSpace(raw))
		if !validName.MatchString(string(name)) {
			return nil, errors.ErrInvalidHookNameWithDetails(raw)
		}
		if seen[name] {
			return nil, errors.Wrapf(errors.ErrDuplicateHook, "%s", name)
		}
		seen[name] = true
		set = append(set, name)
	}
	return set, nil
}

// Contains reports whether name is part of the set.
func (s Set) Contains(name Name) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// Strings returns the names as plain strings.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, n := range s {
		out[i] = string(n)
	}
	return out
}

// release pairs a version constraint with the hooks the framework added in it.
type release struct {
	constraint string
	added      []Name
}

var releases = []release{
	{constraint: ">= 4.2", added: []Name{Services}},
	{constraint: ">= 5.1", added: []Name{Events}},
}

// ForFrameworkVersion returns the valid hook list for the given framework version.
// An empty version yields DefaultNames.
func ForFrameworkVersion(v string) (Set, error) {
	set := append(Set{}, DefaultNames...)
	if strings.TrimSpace(v) == "" {
		return set, nil
	}

	parsed, err := version.NewVersion(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidFrameworkVersion, "%s: %v", v, err)
	}

	for _, r := range releases {
		constraint, err := version.NewConstraint(r.constraint)
		if err != nil {
			return nil, err
		}
		if constraint.Check(parsed) {
			set = append(set, r.added...)
		}
	}
	return set, nil
}
