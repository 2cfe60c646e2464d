// Package amdgcn is the backend for the AMD Graphics Core Next architecture
// family. It registers a machine that lowers IR modules to GCN assembly text
// or to a binary code object.
package amdgcn

import (
	"github.com/llir/llvm/ir"

	"hlc/internal/errors"
	"hlc/internal/target"
)

// Arch is the architecture name this backend registers under.
const Arch = "amdgcn"

// datalayout is the native layout for amdgcn--amdhsa: 64-bit global and
// constant address spaces, 32-bit scratch and local.
const datalayout = "e-p:32:32-p1:64:64-p2:64:64-p3:32:32-p4:64:64-p5:32:32" +
	"-i64:64-v16:16-v24:32-v32:32-v48:64-v96:128-v192:256-v256:256" +
	"-v512:512-v1024:1024-v2048:2048-n32:64"

// Register adds the amdgcn factory to a target registry.
func Register(r *target.Registry) {
	r.Register(Arch, func(d target.Descriptor) target.Machine {
		return &machine{desc: d}
	})
}

type machine struct {
	desc target.Descriptor
}

func (m *machine) Descriptor() target.Descriptor {
	return m.desc
}

func (m *machine) DataLayout() string {
	return datalayout
}

// Emit lowers mod into the requested artifact kind. Output depends only on
// the module text and the options, never on process state.
func (m *machine) Emit(mod *ir.Module, kind target.ArtifactKind, opts target.Options) ([]byte, error) {
	switch kind {
	case target.EmitAssembly:
		return m.emitAssembly(mod, opts), nil
	case target.EmitObject:
		return m.emitObject(mod, opts), nil
	default:
		return nil, errors.New(errors.KindUnsupportedArtifact, errors.ErrorUnsupportedArtifact,
			"target %s does not support generation of this file type", Arch)
	}
}
