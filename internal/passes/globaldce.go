package passes

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
)

// GlobalDCE removes internal-linkage functions and globals that nothing in
// the module references. It fills the interprocedural slot of the standard
// pipeline: after inlineable helpers have served their purpose they get
// swept from the module.
type GlobalDCE struct{}

func (g *GlobalDCE) Name() string {
	return "globaldce"
}

func (g *GlobalDCE) Description() string {
	return "Removes unreferenced internal functions and globals"
}

func (g *GlobalDCE) Apply(m *ir.Module) bool {
	changed := false
	for {
		counts := globalRefCounts(m)
		removed := false

		keptFuncs := m.Funcs[:0]
		for _, f := range m.Funcs {
			if discardable(f.Linkage) && counts[f.Name()] <= 1 {
				removed = true
				continue
			}
			keptFuncs = append(keptFuncs, f)
		}
		m.Funcs = keptFuncs

		keptGlobals := m.Globals[:0]
		for _, gl := range m.Globals {
			if discardable(gl.Linkage) && counts[gl.Name()] <= 1 {
				removed = true
				continue
			}
			keptGlobals = append(keptGlobals, gl)
		}
		m.Globals = keptGlobals

		if !removed {
			break
		}
		changed = true
	}
	return changed
}

// discardable reports whether a symbol with the given linkage may be removed
// when unreferenced. Only symbols invisible outside the module qualify.
func discardable(linkage enum.Linkage) bool {
	return linkage == enum.LinkageInternal || linkage == enum.LinkagePrivate
}
