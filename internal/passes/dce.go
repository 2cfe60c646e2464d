package passes

import (
	"github.com/llir/llvm/ir"
)

// DeadCodeElimination removes side-effect-free instructions whose results
// are never used. Memory writes, calls and anything that could trap stay
// untouched.
type DeadCodeElimination struct{}

func (dce *DeadCodeElimination) Name() string {
	return "dce"
}

func (dce *DeadCodeElimination) Description() string {
	return "Removes unused side-effect-free instructions"
}

func (dce *DeadCodeElimination) Apply(f *ir.Func) bool {
	if len(f.Blocks) == 0 {
		return false
	}
	normalizeNames(f)

	changed := false
	for {
		used := usedLocals(f)
		removed := false
		for _, b := range f.Blocks {
			kept := b.Insts[:0]
			for _, inst := range b.Insts {
				if dce.isDead(inst, used) {
					removed = true
					continue
				}
				kept = append(kept, inst)
			}
			b.Insts = kept
		}
		if !removed {
			break
		}
		changed = true
	}
	return changed
}

func (dce *DeadCodeElimination) isDead(inst ir.Instruction, used map[string]bool) bool {
	if !pure(inst) {
		return false
	}
	named, ok := inst.(namedLocal)
	if !ok || named.IsUnnamed() {
		return false
	}
	// Name() wraps purely numeric names in quotes; the used set stores the
	// unquoted form.
	return !used[unquote(named.Name())]
}

// pure reports whether removing inst cannot change observable behavior.
// Division is excluded: a constant zero divisor must keep its trap.
func pure(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.InstAdd, *ir.InstSub, *ir.InstMul,
		*ir.InstShl, *ir.InstLShr, *ir.InstAShr,
		*ir.InstAnd, *ir.InstOr, *ir.InstXor,
		*ir.InstFAdd, *ir.InstFSub, *ir.InstFMul,
		*ir.InstICmp, *ir.InstFCmp,
		*ir.InstTrunc, *ir.InstZExt, *ir.InstSExt,
		*ir.InstFPTrunc, *ir.InstFPExt, *ir.InstBitCast,
		*ir.InstPtrToInt, *ir.InstIntToPtr,
		*ir.InstGetElementPtr, *ir.InstAlloca,
		*ir.InstSelect, *ir.InstPhi:
		return true
	default:
		return false
	}
}
