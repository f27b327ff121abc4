// SPDX-License-Identifier: MPL-2.0

package topology

import (
	"maps"
	"slices"
)

// Kind discriminates the component variants.
type Kind string

// Component kind constants. The values match the `type` field of the
// topology document.
const (
	// KindService is a long-running process started from a shell command in
	// the component's working directory.
	KindService Kind = "service"
	// KindContainer is a named container resumed (or created) through the
	// local container engine, with its log stream attached afterwards.
	KindContainer Kind = "container"
	// KindLibrary is a source tree that other components link against. It is
	// never launched.
	KindLibrary Kind = "library"
)

// Runnable reports whether components of this kind are launched by the
// orchestrator. Library entries are inert at runtime.
func (k Kind) Runnable() bool {
	return k == KindService || k == KindContainer
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k == KindService || k == KindContainer || k == KindLibrary
}

// Link declares that a library component's source tree is copied into the
// declaring component's tree before launch.
type Link struct {
	// Component names the library whose tree is copied.
	Component string `json:"component"`
	// Path is the destination directory, relative to the declaring
	// component's location.
	Path string `json:"path"`
}

// Component is one named unit of the topology. The Type field selects the
// variant; the remaining fields are variant-specific.
type Component struct {
	Type Kind `json:"type"`

	// Location is the component's directory. Working directory for services,
	// source tree for libraries, optional for containers. Relative paths are
	// resolved against the topology file during Load.
	Location string `json:"location,omitempty"`

	// Start is the shell command that runs a service.
	Start string `json:"start,omitempty"`

	// Container is the engine-level container name (container variant).
	Container string `json:"container_name,omitempty"`

	// Run is the shell command that creates the container when resuming an
	// existing one fails.
	Run string `json:"run,omitempty"`

	// Links are library trees copied into this component before launch.
	Links []Link `json:"links,omitempty"`
}

// Environments holds the variable overlays applied on top of the ambient
// process environment: General for every component, Services keyed by
// component name for single components.
type Environments struct {
	General  map[string]string            `json:"general,omitempty"`
	Services map[string]map[string]string `json:"services,omitempty"`
}

// Topology is the validated, static description of the whole application.
// It is owned by the caller and read-only to the orchestration engine.
type Topology struct {
	Environments Environments         `json:"environments,omitempty"`
	Components   map[string]Component `json:"components"`
	Executions   []string             `json:"executions,omitempty"`

	// FilePath is where the topology was loaded from.
	FilePath string `json:"-"`
}

// Component returns the definition for name.
func (t *Topology) Component(name string) (Component, bool) {
	c, ok := t.Components[name]
	return c, ok
}

// ServiceEnv returns the per-component environment overlay for name. A
// missing entry yields nil, which composes as an empty layer.
func (t *Topology) ServiceEnv(name string) map[string]string {
	return t.Environments.Services[name]
}

// Names returns every component name in sorted order.
func (t *Topology) Names() []string {
	return slices.Sorted(maps.Keys(t.Components))
}

// RepoComponents returns, in sorted order, the names of components that live
// in a local directory (services and libraries). These are the targets of
// the git workflows; containers have no repository.
func (t *Topology) RepoComponents() []string {
	var names []string
	for name, c := range t.Components {
		if c.Type != KindContainer && c.Location != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
