// Package linker merges IR modules. The source module is never mutated: its
// definitions enter the destination through a private clone, and nothing is
// merged unless both modules verify first.
package linker

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"hlc/internal/errors"
	"hlc/internal/modules"
	"hlc/internal/verify"
)

// LinkInto merges a clone of src into dst in place. Both operands are
// verified independently before any mutation; a verification failure leaves
// dst untouched. Colliding definitions of module-local (internal or private
// linkage) symbols are renamed apart; collisions between two externally
// visible definitions surface as KindLink errors.
func LinkInto(dst, src *modules.Module) error {
	dm, err := dst.IR()
	if err != nil {
		return err
	}
	sm, err := src.IR()
	if err != nil {
		return err
	}

	if err := verify.Module(dm); err != nil {
		return err
	}
	if err := verify.Module(sm); err != nil {
		return err
	}

	clone, err := src.Clone()
	if err != nil {
		return err
	}
	cm, _ := clone.IR()

	taken := symbolNames(dm, cm)
	if err := mergeTypeDefs(dm, cm); err != nil {
		return err
	}
	if err := mergeGlobals(dm, cm, taken); err != nil {
		return err
	}
	if err := mergeFuncs(dm, cm, taken); err != nil {
		return err
	}
	dm.ModuleAsms = append(dm.ModuleAsms, cm.ModuleAsms...)
	return nil
}

func mergeTypeDefs(dst, src *ir.Module) error {
	byName := make(map[string]int, len(dst.TypeDefs))
	for i, t := range dst.TypeDefs {
		byName[t.Name()] = i
	}
	for _, t := range src.TypeDefs {
		i, ok := byName[t.Name()]
		if !ok {
			dst.TypeDefs = append(dst.TypeDefs, t)
			continue
		}
		if !dst.TypeDefs[i].Equal(t) {
			return errors.New(errors.KindLink, errors.ErrorLinkConflict,
				"type %%%s defined differently in both modules", t.Name())
		}
	}
	return nil
}

func mergeGlobals(dst, src *ir.Module, taken map[string]bool) error {
	byName := make(map[string]int, len(dst.Globals))
	for i, g := range dst.Globals {
		byName[g.Name()] = i
	}
	for _, g := range src.Globals {
		i, ok := byName[g.Name()]
		if !ok {
			dst.Globals = append(dst.Globals, g)
			continue
		}
		existing := dst.Globals[i]
		switch {
		case g.Init == nil:
			// Incoming declaration; the existing symbol satisfies it.
		case existing.Init == nil:
			// Incoming definition resolves the existing declaration.
			dst.Globals[i] = g
		case existing.LLString() == g.LLString():
			// Identical definitions collapse to one.
		case localLinkage(g.Linkage):
			// Module-local symbols never clash across modules. References
			// inside the clone follow the rename, since operands print
			// through the symbol object.
			g.SetName(freshName(taken, g.Name()))
			dst.Globals = append(dst.Globals, g)
		case localLinkage(existing.Linkage):
			existing.SetName(freshName(taken, existing.Name()))
			dst.Globals[i] = g
			dst.Globals = append(dst.Globals, existing)
		default:
			return errors.New(errors.KindLink, errors.ErrorLinkConflict,
				"duplicate global @%s", g.Name())
		}
	}
	return nil
}

func mergeFuncs(dst, src *ir.Module, taken map[string]bool) error {
	byName := make(map[string]int, len(dst.Funcs))
	for i, f := range dst.Funcs {
		byName[f.Name()] = i
	}
	for _, f := range src.Funcs {
		i, ok := byName[f.Name()]
		if !ok {
			dst.Funcs = append(dst.Funcs, f)
			continue
		}
		existing := dst.Funcs[i]
		switch {
		case len(f.Blocks) == 0:
			// Incoming declaration; the existing symbol satisfies it.
		case len(existing.Blocks) == 0:
			if !existing.Sig.Equal(f.Sig) {
				return errors.New(errors.KindLink, errors.ErrorLinkConflict,
					"signature mismatch for @%s", f.Name())
			}
			dst.Funcs[i] = f
		case existing.LLString() == f.LLString():
			// Identical definitions collapse to one.
		case localLinkage(f.Linkage):
			f.SetName(freshName(taken, f.Name()))
			dst.Funcs = append(dst.Funcs, f)
		case localLinkage(existing.Linkage):
			existing.SetName(freshName(taken, existing.Name()))
			dst.Funcs[i] = f
			dst.Funcs = append(dst.Funcs, existing)
		default:
			return errors.New(errors.KindLink, errors.ErrorLinkConflict,
				"duplicate function @%s", f.Name())
		}
	}
	return nil
}

// localLinkage reports whether a symbol is invisible outside its module.
func localLinkage(l enum.Linkage) bool {
	return l == enum.LinkageInternal || l == enum.LinkagePrivate
}

// symbolNames collects every global symbol name defined in the given
// modules.
func symbolNames(ms ...*ir.Module) map[string]bool {
	taken := make(map[string]bool)
	for _, m := range ms {
		for _, g := range m.Globals {
			taken[g.Name()] = true
		}
		for _, f := range m.Funcs {
			taken[f.Name()] = true
		}
	}
	return taken
}

// freshName derives a symbol name not taken in either module.
func freshName(taken map[string]bool, base string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s.%d", base, n)
		if !taken[name] {
			taken[name] = true
			return name
		}
	}
}
