// SPDX-License-Identifier: MPL-2.0

package topology

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/cueutil"
)

// DefaultFileName is the topology file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "switchrepo.cue"

//go:embed topology_schema.cue
var topologySchema string

// Load reads and parses the topology document at path. An empty path falls
// back to DefaultFileName in the current directory.
func Load(path string) (*Topology, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology: %w", err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses topology content from bytes. The path is used for error
// messages and as the base for resolving relative component locations.
func ParseBytes(data []byte, path string) (*Topology, error) {
	t, err := cueutil.Parse[Topology](topologySchema, data, "#Topology", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}

	t.FilePath = path
	if err := t.resolveLocations(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// resolveLocations turns relative component locations into absolute paths
// anchored at the topology file's directory, so runners and git workflows
// never depend on the orchestrator's working directory.
func (t *Topology) resolveLocations() error {
	abs, err := filepath.Abs(t.FilePath)
	if err != nil {
		return fmt.Errorf("resolve topology path: %w", err)
	}
	base := filepath.Dir(abs)

	for name, c := range t.Components {
		if c.Location == "" || filepath.IsAbs(c.Location) {
			continue
		}
		c.Location = filepath.Join(base, c.Location)
		t.Components[name] = c
	}

	return nil
}
