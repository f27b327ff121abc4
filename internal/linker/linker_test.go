// SPDX-License-Identifier: MPL-2.0

package linker

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func linkedTopology(libDir, svcDir string) *topology.Topology {
	return &topology.Topology{
		Components: map[string]topology.Component{
			"shared": {Type: topology.KindLibrary, Location: libDir},
			"svc": {
				Type:     topology.KindService,
				Location: svcDir,
				Start:    "true",
				Links:    []topology.Link{{Component: "shared", Path: "vendor/shared"}},
			},
		},
		Executions: []string{"svc"},
	}
}

func TestSyncCopiesLibraryTree(t *testing.T) {
	t.Parallel()

	libDir := t.TempDir()
	svcDir := t.TempDir()
	writeFile(t, filepath.Join(libDir, "index.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(libDir, "lib", "util.js"), "exports.noop = () => {}\n")
	writeFile(t, filepath.Join(libDir, ".git", "HEAD"), "ref: refs/heads/main\n")

	l := New(linkedTopology(libDir, svcDir), nil)
	if err := l.Sync([]string{"svc"}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}

	dst := filepath.Join(svcDir, "vendor", "shared")
	got, err := os.ReadFile(filepath.Join(dst, "index.js"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if string(got) != "module.exports = {}\n" {
		t.Errorf("copied content = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "lib", "util.js")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, ".git")); !os.IsNotExist(err) {
		t.Error("VCS metadata was copied")
	}
}

func TestSyncOverwritesStaleFiles(t *testing.T) {
	t.Parallel()

	libDir := t.TempDir()
	svcDir := t.TempDir()
	writeFile(t, filepath.Join(libDir, "index.js"), "fresh\n")
	writeFile(t, filepath.Join(svcDir, "vendor", "shared", "index.js"), "stale\n")

	l := New(linkedTopology(libDir, svcDir), nil)
	if err := l.Sync([]string{"svc"}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(svcDir, "vendor", "shared", "index.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh\n" {
		t.Errorf("file = %q, want overwritten content", got)
	}
}

func TestSyncPreservesExecutableBit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows has no unix permission bits")
	}
	t.Parallel()

	libDir := t.TempDir()
	svcDir := t.TempDir()
	script := filepath.Join(libDir, "build.sh")
	writeFile(t, script, "#!/bin/sh\n")
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatal(err)
	}

	l := New(linkedTopology(libDir, svcDir), nil)
	if err := l.Sync([]string{"svc"}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(svcDir, "vendor", "shared", "build.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("mode = %v, want owner-executable", info.Mode())
	}
}

func TestSyncSkipsDuplicates(t *testing.T) {
	t.Parallel()

	libDir := t.TempDir()
	svcDir := t.TempDir()
	writeFile(t, filepath.Join(libDir, "index.js"), "once\n")

	l := New(linkedTopology(libDir, svcDir), nil)
	// The same name twice must not fail or copy twice.
	if err := l.Sync([]string{"svc", "svc"}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
}

func TestSyncUnknownComponent(t *testing.T) {
	t.Parallel()

	l := New(linkedTopology(t.TempDir(), t.TempDir()), nil)
	if err := l.Sync([]string{"ghost"}); err == nil {
		t.Error("Sync() = nil error for unknown component")
	}
}

func TestSyncComponentWithoutLinks(t *testing.T) {
	t.Parallel()

	topo := &topology.Topology{
		Components: map[string]topology.Component{
			"plain": {Type: topology.KindService, Location: t.TempDir(), Start: "true"},
		},
	}
	if err := New(topo, nil).Sync([]string{"plain"}); err != nil {
		t.Errorf("Sync() error: %v", err)
	}
}
