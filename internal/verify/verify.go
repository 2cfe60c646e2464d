// Package verify implements structural well-formedness checking of IR
// modules, independent of any target. It is the verification primitive the
// optimization and link stages run before touching a module.
package verify

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"hlc/internal/errors"
)

// Module checks the structural validity of m. It returns nil for a
// well-formed module and a KindVerify error describing the first group of
// problems found otherwise.
func Module(m *ir.Module) error {
	var problems []string

	seen := make(map[string]bool)
	for _, g := range m.Globals {
		name := g.Name()
		if seen[name] {
			problems = append(problems, fmt.Sprintf("duplicate global symbol @%s", name))
		}
		seen[name] = true
	}
	for _, f := range m.Funcs {
		name := f.Name()
		if seen[name] {
			problems = append(problems, fmt.Sprintf("duplicate global symbol @%s", name))
		}
		seen[name] = true
		problems = append(problems, checkFunc(f)...)
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.KindVerify, errors.ErrorVerifyModule,
		"module %q is broken: %s", m.SourceFilename, problems[0])
}

// checkFunc validates one function definition. Declarations (no body) are
// always well formed at this level.
func checkFunc(f *ir.Func) []string {
	var problems []string
	if len(f.Blocks) == 0 {
		return nil
	}
	for _, b := range f.Blocks {
		if b.Term == nil {
			problems = append(problems,
				fmt.Sprintf("block %%%s in @%s lacks a terminator", b.Name(), f.Name()))
			continue
		}
		if ret, ok := b.Term.(*ir.TermRet); ok {
			problems = append(problems, checkRet(f, ret)...)
		}
	}
	return problems
}

func checkRet(f *ir.Func, ret *ir.TermRet) []string {
	retType := f.Sig.RetType
	isVoid := types.Equal(retType, types.Void)
	switch {
	case isVoid && ret.X != nil:
		return []string{fmt.Sprintf("@%s returns void but ret carries a value", f.Name())}
	case !isVoid && ret.X == nil:
		return []string{fmt.Sprintf("@%s must return %v but ret carries no value", f.Name(), retType)}
	case !isVoid && !types.Equal(ret.X.Type(), retType):
		return []string{fmt.Sprintf("@%s returns %v but ret carries %v", f.Name(), retType, ret.X.Type())}
	}
	return nil
}
