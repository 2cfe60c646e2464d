// Package modules wraps the IR toolkit's module type behind an exclusively
// owned handle with an explicit lifecycle: parse, print, clone, destroy.
package modules

import (
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"

	"hlc/internal/errors"
)

// Module owns one IR program. A Module is live until Destroy is called;
// afterwards every operation reports KindDestroyed instead of touching the
// released program. Modules are not safe for concurrent use.
type Module struct {
	m *ir.Module
}

// ParseText parses a complete textual IR program. Syntactic failure is a
// structured KindParse error carrying the parser's diagnostic.
func ParseText(name, src string) (*Module, error) {
	m, err := asm.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, errors.ErrorParseText, err,
			"cannot parse module %q", name)
	}
	return &Module{m: m}, nil
}

// Wrap takes ownership of an already-built IR module.
func Wrap(m *ir.Module) *Module {
	return &Module{m: m}
}

// IR returns the underlying program, or an error if the module was
// destroyed.
func (mod *Module) IR() (*ir.Module, error) {
	if mod.m == nil {
		return nil, errors.New(errors.KindDestroyed, errors.ErrorHandleDestroyed,
			"module has been destroyed")
	}
	return mod.m, nil
}

// Print returns the full textual dump of the module.
func (mod *Module) Print() (string, error) {
	m, err := mod.IR()
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Clone produces an independent deep copy. The toolkit guarantees its
// print/parse round trip, so cloning goes through the textual form.
func (mod *Module) Clone() (*Module, error) {
	m, err := mod.IR()
	if err != nil {
		return nil, err
	}
	clone, err := asm.ParseString(m.SourceFilename, m.String())
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, errors.ErrorParseText, err,
			"cannot clone module %q", m.SourceFilename)
	}
	return &Module{m: clone}, nil
}

// Destroy releases the underlying program. Destroying twice is an error,
// not undefined behavior.
func (mod *Module) Destroy() error {
	if mod.m == nil {
		return errors.New(errors.KindDestroyed, errors.ErrorHandleDestroyed,
			"module already destroyed")
	}
	mod.m = nil
	return nil
}

// Destroyed reports whether the module has been released.
func (mod *Module) Destroyed() bool {
	return mod.m == nil
}
