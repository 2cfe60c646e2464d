package amdgcn

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"hlc/internal/target"
)

// asmWriter renders a module as GCN assembly. The writer is directive-level:
// instruction selection and scheduling live below this seam, so function
// bodies are carried as verbose comments when requested.
type asmWriter struct {
	out  strings.Builder
	desc target.Descriptor
}

func (m *machine) emitAssembly(mod *ir.Module, opts target.Options) []byte {
	w := &asmWriter{desc: m.desc}
	w.header(mod)
	for _, g := range mod.Globals {
		w.global(g)
	}
	for i, f := range mod.Funcs {
		w.function(i, f, opts.AsmVerbose)
	}
	return []byte(w.out.String())
}

func (w *asmWriter) directive(format string, args ...interface{}) {
	w.out.WriteString("\t")
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteString("\n")
}

func (w *asmWriter) label(name string) {
	w.out.WriteString(name)
	w.out.WriteString(":\n")
}

func (w *asmWriter) comment(text string) {
	fmt.Fprintf(&w.out, "; %s\n", text)
}

func (w *asmWriter) header(mod *ir.Module) {
	w.directive(".text")
	w.directive(".amdgcn_target %q", w.desc.Triple+"--"+w.desc.CPU)
	if mod.SourceFilename != "" {
		w.directive(".file %q", mod.SourceFilename)
	}
	w.out.WriteString("\n")
}

func (w *asmWriter) global(g *ir.Global) {
	w.directive(".type %s,@object", g.Name())
	if g.Linkage != enum.LinkageInternal && g.Linkage != enum.LinkagePrivate {
		w.directive(".globl %s", g.Name())
	}
	w.label(g.Name())
	w.out.WriteString("\n")
}

func (w *asmWriter) function(index int, f *ir.Func, verbose bool) {
	if len(f.Blocks) == 0 {
		// Declarations emit no code.
		return
	}
	name := f.Name()
	if f.Linkage != enum.LinkageInternal && f.Linkage != enum.LinkagePrivate {
		w.directive(".globl %s", name)
	}
	w.directive(".p2align 2")
	w.directive(".type %s,@function", name)
	w.label(name)
	if verbose {
		for _, b := range f.Blocks {
			w.comment(fmt.Sprintf("%%%s:", b.Name()))
			for _, inst := range b.Insts {
				w.comment("  " + inst.LLString())
			}
			w.comment("  " + b.Term.LLString())
		}
	}
	end := fmt.Sprintf(".Lfunc_end%d", index)
	w.label(end)
	w.directive(".size %s, %s-%s", name, end, name)
	w.out.WriteString("\n")
}
