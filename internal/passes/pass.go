// Package passes holds the optimization pass catalogue and the
// optimization-level-driven pipeline builder. Passes transform IR modules in
// place; the catalogue is registered per session, not globally.
package passes

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// FunctionPass is a transformation scoped to a single function.
type FunctionPass interface {
	Name() string
	Description() string
	Apply(f *ir.Func) bool // Returns true if changes were made
}

// ModulePass is a whole-module transformation.
type ModulePass interface {
	Name() string
	Description() string
	Apply(m *ir.Module) bool // Returns true if changes were made
}

// Registry is the pass catalogue. Pipelines select passes from it by name.
type Registry struct {
	funcPasses   map[string]FunctionPass
	modulePasses map[string]ModulePass
}

// NewRegistry returns a registry with the standard catalogue registered:
// constfold, dce, simplifycfg (function passes), globaldce and strip-debug
// (module passes).
func NewRegistry() *Registry {
	r := &Registry{
		funcPasses:   make(map[string]FunctionPass),
		modulePasses: make(map[string]ModulePass),
	}
	r.RegisterFunctionPass(&ConstFold{})
	r.RegisterFunctionPass(&DeadCodeElimination{})
	r.RegisterFunctionPass(&SimplifyCFG{})
	r.RegisterModulePass(&GlobalDCE{})
	r.RegisterModulePass(&StripDebugInfo{})
	return r
}

// RegisterFunctionPass adds a function pass to the catalogue, replacing any
// pass previously registered under the same name.
func (r *Registry) RegisterFunctionPass(p FunctionPass) {
	r.funcPasses[p.Name()] = p
}

// RegisterModulePass adds a module pass to the catalogue.
func (r *Registry) RegisterModulePass(p ModulePass) {
	r.modulePasses[p.Name()] = p
}

// FunctionPass looks up a function pass by name.
func (r *Registry) FunctionPass(name string) (FunctionPass, error) {
	p, ok := r.funcPasses[name]
	if !ok {
		return nil, fmt.Errorf("unknown function pass %q", name)
	}
	return p, nil
}

// ModulePass looks up a module pass by name.
func (r *Registry) ModulePass(name string) (ModulePass, error) {
	p, ok := r.modulePasses[name]
	if !ok {
		return nil, fmt.Errorf("unknown module pass %q", name)
	}
	return p, nil
}
