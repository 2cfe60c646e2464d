package target

import (
	"github.com/llir/llvm/ir"
)

// ApplyFunctionAttributes overrides the target-cpu and target-features
// attributes of every function definition in m with the descriptor's fixed
// configuration. Declarations are left alone; their attributes belong to
// whichever module defines them.
func ApplyFunctionAttributes(m *ir.Module, d Descriptor) {
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		setAttr(f, "target-cpu", d.CPU)
		setAttr(f, "target-features", d.Features)
	}
}

func setAttr(f *ir.Func, key, value string) {
	for i, attr := range f.FuncAttrs {
		if pair, ok := attr.(ir.AttrPair); ok && pair.Key == key {
			f.FuncAttrs[i] = ir.AttrPair{Key: key, Value: value}
			return
		}
	}
	f.FuncAttrs = append(f.FuncAttrs, ir.AttrPair{Key: key, Value: value})
}
