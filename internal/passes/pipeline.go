package passes

import (
	"github.com/llir/llvm/ir"

	"hlc/internal/verify"
)

// Options select how aggressively the standard pipeline rewrites a module.
// The toggles mirror the session-wide flags of the same names.
type Options struct {
	OptLevel  int // [0,3]
	SizeLevel int // [0,2]

	DisableInline            bool
	DisableLoopVectorization bool
	DisableSLPVectorization  bool
	DisableOptimizations     bool

	// VerifyEach re-verifies the module after every pass instead of only
	// once at the end of the pipeline.
	VerifyEach bool
}

// Gates are the derived pipeline decisions for a given Options value. They
// are exposed so the level-driven policy is observable without running the
// pipeline.
type Gates struct {
	Inline        bool
	LoopVectorize bool
	SLPVectorize  bool
	UnrollLoops   bool
	StandardLink  bool // whole-program link-time sequence
}

// ComputeGates derives the pipeline decisions from the requested levels:
// vectorization only above level 1 and below size level 2, unrolling off at
// level 0, link-time optimization whenever any optimization is requested.
func ComputeGates(o Options) Gates {
	return Gates{
		Inline:        !o.DisableInline,
		LoopVectorize: !o.DisableLoopVectorization && o.OptLevel > 1 && o.SizeLevel < 2,
		SLPVectorize:  !o.DisableSLPVectorization && o.OptLevel > 1 && o.SizeLevel < 2,
		UnrollLoops:   o.OptLevel != 0,
		StandardLink:  o.OptLevel > 0,
	}
}

// Pipeline is an ordered selection of passes from a registry. Function
// passes run over every function first; module passes follow.
type Pipeline struct {
	Gates          Gates
	FunctionPasses []FunctionPass
	ModulePasses   []ModulePass
	VerifyEach     bool
}

// Standard builds the per-level pipeline from the registry's catalogue.
// At level 0 the pipeline is empty: the module passes through untouched.
// The catalogue carries no loop passes for this target, so the vectorize
// and unroll gates shape only the Gates record.
func (r *Registry) Standard(o Options) (*Pipeline, error) {
	p := &Pipeline{
		Gates:      ComputeGates(o),
		VerifyEach: o.VerifyEach,
	}
	if o.DisableOptimizations || o.OptLevel < 1 {
		return p, nil
	}

	for _, name := range []string{"constfold", "simplifycfg", "dce"} {
		fp, err := r.FunctionPass(name)
		if err != nil {
			return nil, err
		}
		p.FunctionPasses = append(p.FunctionPasses, fp)
	}

	// Interprocedural slot: cleans up after inlining; skipped entirely when
	// inlining is disabled, matching the empty inliner slot.
	if p.Gates.StandardLink && p.Gates.Inline {
		mp, err := r.ModulePass("globaldce")
		if err != nil {
			return nil, err
		}
		p.ModulePasses = append(p.ModulePasses, mp)
	}
	return p, nil
}

// Run executes the pipeline over m: every function pass over every function,
// then the module passes. It reports whether anything changed. With
// VerifyEach set, the module is re-verified after each pass and the first
// verification failure aborts the run.
func (p *Pipeline) Run(m *ir.Module) (bool, error) {
	changed := false
	for _, fp := range p.FunctionPasses {
		for _, f := range m.Funcs {
			if fp.Apply(f) {
				changed = true
			}
		}
		if err := p.checkpoint(m); err != nil {
			return changed, err
		}
	}
	for _, mp := range p.ModulePasses {
		if mp.Apply(m) {
			changed = true
		}
		if err := p.checkpoint(m); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (p *Pipeline) checkpoint(m *ir.Module) error {
	if !p.VerifyEach {
		return nil
	}
	return verify.Module(m)
}
