// Package compiler orchestrates the two-stage pipeline: target-independent
// optimization of a module in place, then target-specific code generation
// over a private clone. It owns the level checks and the verification
// failure policy.
package compiler

import (
	"os"

	"hlc/internal/errors"
	"hlc/internal/modules"
	"hlc/internal/session"
	"hlc/internal/target"
	"hlc/internal/verify"
)

// Valid level ranges. Requests outside them are rejected, never clamped.
const (
	MinOptLevel  = 0
	MaxOptLevel  = 3
	MinSizeLevel = 0
	MaxSizeLevel = 2
)

// CheckLevels validates both knobs against their inclusive ranges.
func CheckLevels(optLevel, sizeLevel int) error {
	if optLevel < MinOptLevel || optLevel > MaxOptLevel {
		return errors.New(errors.KindRange, errors.ErrorLevelRange,
			"optimization level %d outside [%d,%d]", optLevel, MinOptLevel, MaxOptLevel)
	}
	if sizeLevel < MinSizeLevel || sizeLevel > MaxSizeLevel {
		return errors.New(errors.KindRange, errors.ErrorLevelRange,
			"size level %d outside [%d,%d]", sizeLevel, MinSizeLevel, MaxSizeLevel)
	}
	return nil
}

// Options configure one optimization run.
type Options struct {
	OptLevel  int // [0,3]
	SizeLevel int // [0,2]
	// Verify re-verifies the module after every pass in the pipeline.
	Verify bool
}

// Optimize runs the standard optimization pipeline over mod in place. The
// module is verified before the pipeline starts and once more after it
// finishes. With Session.FatalVerify set, a module failing the initial
// verification terminates the process; otherwise it is a KindVerify error.
func Optimize(s *session.Session, mod *modules.Module, opts Options) error {
	if err := CheckLevels(opts.OptLevel, opts.SizeLevel); err != nil {
		return err
	}
	m, err := mod.IR()
	if err != nil {
		return err
	}

	if s.StripDebug {
		strip, err := s.Passes().ModulePass("strip-debug")
		if err != nil {
			return err
		}
		strip.Apply(m)
	}

	// Catch broken modules before any pass touches them.
	if err := verify.Module(m); err != nil {
		if s.FatalVerify {
			s.Logger().Criticalf("input module is broken: %v", err)
			os.Exit(1)
		}
		return err
	}

	desc := target.AMDGCN()
	m.TargetTriple = desc.Triple

	// A missing backend is fine here; optimization then proceeds
	// target-agnostically.
	if _, err := s.Targets().Lookup(desc); err != nil {
		s.Logger().Debugf("no machine for %s, optimizing target-agnostically", desc.Arch)
	}

	target.ApplyFunctionAttributes(m, desc)

	pipe, err := s.Passes().Standard(s.PipelineOptions(opts.OptLevel, opts.SizeLevel, opts.Verify))
	if err != nil {
		return err
	}
	if _, err := pipe.Run(m); err != nil {
		return err
	}

	// The module must still be well formed on completion of optimization.
	return verify.Module(m)
}

// Compile lowers a private clone of mod for the fixed GPU target and
// returns the emitted artifact bytes. The caller's module is never mutated.
// Failure to resolve a machine for the fixed descriptor is a hard error:
// code generation cannot proceed without one.
func Compile(s *session.Session, mod *modules.Module, optLevel int, kind target.ArtifactKind) ([]byte, error) {
	if err := CheckLevels(optLevel, MinSizeLevel); err != nil {
		return nil, err
	}
	clone, err := mod.Clone()
	if err != nil {
		return nil, err
	}
	m, err := clone.IR()
	if err != nil {
		return nil, err
	}

	desc := target.AMDGCN()
	m.TargetTriple = desc.Triple

	machine, err := s.Targets().Lookup(desc)
	if err != nil {
		return nil, err
	}

	m.DataLayout = machine.DataLayout()
	target.ApplyFunctionAttributes(m, desc)

	if err := verify.Module(m); err != nil {
		return nil, err
	}

	return machine.Emit(m, kind, target.Options{
		Level:      target.CodeGenLevelFor(optLevel),
		AsmVerbose: true,
		Verify:     true,
	})
}
