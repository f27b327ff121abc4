// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

type fakeRunner struct{ kind topology.Kind }

func (f *fakeRunner) Kind() topology.Kind { return f.kind }

func (f *fakeRunner) Launch(context.Context, *LaunchContext) (Handle, error) {
	return nil, errors.New("not implemented")
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	service := &fakeRunner{kind: topology.KindService}
	container := &fakeRunner{kind: topology.KindContainer}
	reg := NewRegistry(service, container)

	got, err := reg.Get(topology.KindService)
	if err != nil {
		t.Fatalf("Get(service) error: %v", err)
	}
	if got != Runner(service) {
		t.Error("Get(service) returned a different runner")
	}

	if _, err := reg.Get(topology.KindLibrary); err == nil {
		t.Error("Get(library) = nil error, want unregistered-kind error")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	first := &fakeRunner{kind: topology.KindService}
	second := &fakeRunner{kind: topology.KindService}
	reg := NewRegistry(first)
	reg.Register(second)

	got, err := reg.Get(topology.KindService)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != Runner(second) {
		t.Error("Register() did not replace the existing runner")
	}
}

func TestRegistryKinds(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(
		&fakeRunner{kind: topology.KindService},
		&fakeRunner{kind: topology.KindContainer},
	)

	kinds := reg.Kinds()
	slices.Sort(kinds)
	want := []topology.Kind{topology.KindContainer, topology.KindService}
	if !slices.Equal(kinds, want) {
		t.Errorf("Kinds() = %v, want %v", kinds, want)
	}
}
