// SPDX-License-Identifier: MPL-2.0

// Package linker copies linked library trees into the components that
// depend on them. It runs before orchestration so every component sees
// its libraries in place when its start command runs.
package linker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

// Linker resolves and copies the links of a validated topology.
type Linker struct {
	topo   *topology.Topology
	logger *log.Logger
}

// New creates a Linker for topo. A nil logger falls back to the package
// default.
func New(topo *topology.Topology, logger *log.Logger) *Linker {
	if logger == nil {
		logger = log.Default()
	}
	return &Linker{topo: topo, logger: logger}
}

// Sync copies every link declared by the named components: the linked
// library's source tree is copied into the component's tree at the
// link's relative path. Existing files are overwritten; VCS metadata
// directories are skipped. Repeated names and duplicate links are
// synced once.
func (l *Linker) Sync(names []string) error {
	type linkKey struct {
		component string
		library   string
		path      string
	}
	seen := make(map[linkKey]struct{})

	for _, name := range names {
		comp, ok := l.topo.Component(name)
		if !ok {
			return fmt.Errorf("link sync: unknown component %q", name)
		}

		for _, link := range comp.Links {
			key := linkKey{component: name, library: link.Component, path: link.Path}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			lib, ok := l.topo.Component(link.Component)
			if !ok {
				return fmt.Errorf("link sync: component %q links unknown component %q", name, link.Component)
			}

			dst := filepath.Join(comp.Location, link.Path)
			if err := copyTree(lib.Location, dst); err != nil {
				return fmt.Errorf("link sync: component %q: copy %q: %w", name, link.Component, err)
			}
			l.logger.Debug("synced link", "component", name, "library", link.Component, "path", link.Path)
		}
	}
	return nil
}

// copyTree recursively copies src into dst, creating directories as
// needed and overwriting existing files. Directories named .git are
// skipped; so are non-regular files such as sockets and symlinks.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
