// Package abi is the flat call surface of the pipeline: a small set of
// operations over opaque module handles and owned artifacts, with every
// failure encoded in a return value. Hosts that cannot share rich types with
// this module drive compilation exclusively through this package.
//
// Handles are generation-checked indexes into an arena, so using a destroyed
// handle is a reported error rather than undefined behavior. Nothing in this
// package is safe for concurrent use.
package abi

import (
	"hlc/internal/compiler"
	"hlc/internal/errors"
	"hlc/internal/linker"
	"hlc/internal/modules"
	"hlc/internal/session"
	"hlc/internal/target"
)

// Handle identifies one live module owned by an API instance. The zero
// Handle is never valid.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }
func (h Handle) gen() uint32   { return uint32(h >> 32) }

type slot struct {
	mod *modules.Module
	gen uint32
}

// API is one initialized instance of the call surface with its own session,
// target registry, pass catalogue and module arena.
type API struct {
	sess  *session.Session
	slots []slot
	free  []uint32
}

// Initialize creates an API instance: registers all targets and the pass
// catalogue and prepares the module arena. Each call returns an independent
// instance; initializing twice simply yields two contexts.
func Initialize() *API {
	return &API{sess: session.New()}
}

// Session exposes the underlying session for embedders that need to adjust
// toggles directly.
func (a *API) Session() *session.Session {
	return a.sess
}

// Finalize releases everything the instance owns, destroying any modules
// still live in the arena. The instance must not be used afterwards.
func (a *API) Finalize() {
	for i := range a.slots {
		if a.slots[i].mod != nil && !a.slots[i].mod.Destroyed() {
			_ = a.slots[i].mod.Destroy()
		}
		a.slots[i].mod = nil
	}
	a.slots = nil
	a.free = nil
	a.sess.Close()
}

// SetCommandLineOptions forwards tool-style flags to the session.
func (a *API) SetCommandLineOptions(args ...string) error {
	return a.sess.SetCommandLineOptions(args)
}

// ParseText parses a textual IR program into a new handle. Parse failure is
// returned without logging.
func (a *API) ParseText(src string) (Handle, error) {
	mod, err := modules.ParseText("input.ll", src)
	if err != nil {
		return 0, err
	}
	return a.insert(mod), nil
}

// ParseBitcode parses a binary-encoded IR program into a new handle. Unlike
// ParseText, a failure here is also logged through the session logger.
func (a *API) ParseBitcode(data []byte) (Handle, error) {
	mod, err := modules.ParseBitcode("input.bc", data)
	if err != nil {
		a.sess.Logger().Errorf("%v", err)
		return 0, err
	}
	return a.insert(mod), nil
}

// PrintModule returns the full textual dump of the module as an owned
// artifact.
func (a *API) PrintModule(h Handle) (*Artifact, error) {
	mod, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	text, err := mod.Print()
	if err != nil {
		return nil, err
	}
	return newArtifact([]byte(text)), nil
}

// DestroyModule releases the module behind h and invalidates the handle.
// Destroying an already-destroyed handle is an error.
func (a *API) DestroyModule(h Handle) error {
	mod, err := a.lookup(h)
	if err != nil {
		return err
	}
	if err := mod.Destroy(); err != nil {
		return err
	}
	i := h.index()
	a.slots[i].mod = nil
	a.slots[i].gen++
	a.free = append(a.free, i)
	return nil
}

// OptimizeModule runs the standard optimization pipeline in place.
func (a *API) OptimizeModule(h Handle, optLevel, sizeLevel int, verify bool) error {
	if err := compiler.CheckLevels(optLevel, sizeLevel); err != nil {
		return err
	}
	mod, err := a.lookup(h)
	if err != nil {
		return err
	}
	return compiler.Optimize(a.sess, mod, compiler.Options{
		OptLevel:  optLevel,
		SizeLevel: sizeLevel,
		Verify:    verify,
	})
}

// LinkModules merges a clone of src into dst. src is left unmodified.
func (a *API) LinkModules(dst, src Handle) error {
	dstMod, err := a.lookup(dst)
	if err != nil {
		return err
	}
	srcMod, err := a.lookup(src)
	if err != nil {
		return err
	}
	return linker.LinkInto(dstMod, srcMod)
}

// EmitAssembly compiles the module for the fixed GPU target and returns the
// assembly text as an owned artifact.
func (a *API) EmitAssembly(h Handle, optLevel int) (*Artifact, error) {
	return a.emit(h, optLevel, target.EmitAssembly)
}

// EmitObject compiles the module for the fixed GPU target and returns the
// binary object blob as an owned artifact.
func (a *API) EmitObject(h Handle, optLevel int) (*Artifact, error) {
	return a.emit(h, optLevel, target.EmitObject)
}

func (a *API) emit(h Handle, optLevel int, kind target.ArtifactKind) (*Artifact, error) {
	if err := compiler.CheckLevels(optLevel, compiler.MinSizeLevel); err != nil {
		return nil, err
	}
	mod, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	out, err := compiler.Compile(a.sess, mod, optLevel, kind)
	if err != nil {
		return nil, err
	}
	return newArtifact(out), nil
}

func (a *API) insert(mod *modules.Module) Handle {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[i].mod = mod
		return makeHandle(i, a.slots[i].gen)
	}
	a.slots = append(a.slots, slot{mod: mod, gen: 1})
	i := uint32(len(a.slots) - 1)
	return makeHandle(i, 1)
}

func (a *API) lookup(h Handle) (*modules.Module, error) {
	i := h.index()
	if int(i) >= len(a.slots) || a.slots[i].mod == nil || a.slots[i].gen != h.gen() {
		return nil, errors.New(errors.KindDestroyed, errors.ErrorHandleDestroyed,
			"invalid or destroyed module handle")
	}
	return a.slots[i].mod, nil
}
