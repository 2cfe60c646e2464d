// Package target models hardware targets for code generation: a descriptor
// naming the architecture configuration, a machine abstraction that emits
// artifacts, and a registry the session populates at initialization.
package target

import (
	"github.com/llir/llvm/ir"
)

// ArtifactKind selects what a machine emits.
type ArtifactKind int

const (
	// EmitAssembly produces human-readable target assembly.
	EmitAssembly ArtifactKind = iota
	// EmitObject produces a binary object blob.
	EmitObject
)

func (k ArtifactKind) String() string {
	switch k {
	case EmitAssembly:
		return "assembly"
	case EmitObject:
		return "object"
	default:
		return "unknown"
	}
}

// CodeGenLevel is the backend's own optimization knob.
type CodeGenLevel int

const (
	LevelNone CodeGenLevel = iota
	LevelLess
	LevelDefault
	LevelAggressive
)

// CodeGenLevelFor maps a pipeline optimization level onto the backend knob.
// Anything outside [1,3] maps to none.
func CodeGenLevelFor(optLevel int) CodeGenLevel {
	switch optLevel {
	case 1:
		return LevelLess
	case 2:
		return LevelDefault
	case 3:
		return LevelAggressive
	default:
		return LevelNone
	}
}

// Descriptor identifies one concrete target configuration.
type Descriptor struct {
	Arch     string // architecture family, e.g. "amdgcn"
	Triple   string // normalized target triple
	CPU      string // CPU model string
	Features string // comma-separated feature flags
}

// AMDGCN is the fixed GPU target this pipeline compiles for. It is frozen:
// every operation forces the module onto this configuration.
func AMDGCN() Descriptor {
	return Descriptor{
		Arch:     "amdgcn",
		Triple:   "amdgcn--amdhsa",
		CPU:      "fiji",
		Features: "+promote-alloca,+fp64-denormals,+flat-for-global,",
	}
}

// Options tune a single emission.
type Options struct {
	Level CodeGenLevel
	// AsmVerbose interleaves the lowered IR as comments in assembly output.
	AsmVerbose bool
	// Verify re-checks the module before emission.
	Verify bool
}

// Machine is one registered backend. Emit must be deterministic: identical
// module text and options produce identical bytes.
type Machine interface {
	Descriptor() Descriptor
	DataLayout() string
	Emit(m *ir.Module, kind ArtifactKind, opts Options) ([]byte, error)
}
