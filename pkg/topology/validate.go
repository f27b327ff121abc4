// SPDX-License-Identifier: MPL-2.0

package topology

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ValidationError aggregates every problem found in a topology so the user
// can fix them in one pass.
type ValidationError struct {
	Path   string
	Issues []error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %v", e.Path, e.Issues[0])
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = "  - " + issue.Error()
	}
	return fmt.Sprintf("%s: invalid topology:\n%s", e.Path, strings.Join(msgs, "\n"))
}

// Unwrap exposes the individual issues to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Issues
}

// Validate applies the structural rules the CUE schema cannot express:
// per-variant required fields, shell syntax of commands, and the
// cross-references between executions, links, and environment overlays.
func (t *Topology) Validate() error {
	var issues []error
	add := func(format string, args ...any) {
		issues = append(issues, fmt.Errorf(format, args...))
	}

	parser := syntax.NewParser()
	checkSyntax := func(field, script string) {
		if _, err := parser.Parse(strings.NewReader(script), field); err != nil {
			add("%s: invalid shell syntax: %v", field, err)
		}
	}

	for _, name := range t.Names() {
		c := t.Components[name]

		switch c.Type {
		case KindService:
			if c.Location == "" {
				add("component %q: a service requires a location", name)
			}
			if c.Start == "" {
				add("component %q: a service requires a start command", name)
			} else {
				checkSyntax(name+".start", c.Start)
			}
		case KindContainer:
			if c.Container == "" {
				add("component %q: a container requires a container_name", name)
			}
			if c.Run == "" {
				add("component %q: a container requires a run command", name)
			} else {
				checkSyntax(name+".run", c.Run)
			}
		case KindLibrary:
			if c.Location == "" {
				add("component %q: a library requires a location", name)
			}
		default:
			add("component %q: unknown type %q", name, c.Type)
		}

		if len(c.Links) > 0 && c.Location == "" {
			add("component %q: links require a location to copy into", name)
		}
		for i, link := range c.Links {
			target, ok := t.Components[link.Component]
			switch {
			case !ok:
				add("component %q: links[%d] references unknown component %q", name, i, link.Component)
			case target.Type != KindLibrary:
				add("component %q: links[%d] target %q is not a library", name, i, link.Component)
			}
			if !validLinkPath(link.Path) {
				add("component %q: links[%d] path %q must stay inside the component tree", name, i, link.Path)
			}
		}
	}

	for i, name := range t.Executions {
		if _, ok := t.Components[name]; !ok {
			add("executions[%d]: unknown component %q", i, name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(t.Environments.Services)) {
		if _, ok := t.Components[name]; !ok {
			add("environments.services: unknown component %q", name)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Path: t.FilePath, Issues: issues}
	}
	return nil
}

// validLinkPath accepts only relative paths that do not escape the component
// directory.
func validLinkPath(path string) bool {
	if path == "" || filepath.IsAbs(path) {
		return false
	}
	clean := filepath.Clean(path)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
