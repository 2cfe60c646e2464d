package target

import (
	"sort"

	"hlc/internal/errors"
)

// Factory builds a machine for a descriptor.
type Factory func(d Descriptor) Machine

// Registry maps architecture names to machine factories. A session owns one
// registry; nothing here is global.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given architecture name.
func (r *Registry) Register(arch string, f Factory) {
	r.factories[arch] = f
}

// Unregister removes the factory for an architecture, if present.
func (r *Registry) Unregister(arch string) {
	delete(r.factories, arch)
}

// Lookup resolves a machine for the descriptor's architecture. The error is
// KindNoTarget when no backend was registered for it; callers decide whether
// that is tolerable (optimization) or hard (code generation).
func (r *Registry) Lookup(d Descriptor) (Machine, error) {
	f, ok := r.factories[d.Arch]
	if !ok {
		return nil, errors.New(errors.KindNoTarget, errors.ErrorNoTarget,
			"no target machine registered for architecture %q", d.Arch)
	}
	return f(d), nil
}

// Archs lists the registered architectures in stable order.
func (r *Registry) Archs() []string {
	archs := make([]string, 0, len(r.factories))
	for arch := range r.factories {
		archs = append(archs, arch)
	}
	sort.Strings(archs)
	return archs
}
