package passes

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// instOperands returns pointers to the value operands of inst for the
// instruction kinds the rewriter models. The second result is false for
// unmodeled kinds; rewriting passes must then leave the whole function
// alone, since a missed operand would produce broken IR.
func instOperands(inst ir.Instruction) ([]*value.Value, bool) {
	switch i := inst.(type) {
	case *ir.InstAdd:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstSub:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstMul:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstUDiv:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstSDiv:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstURem:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstSRem:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstShl:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstLShr:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstAShr:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstAnd:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstOr:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstXor:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstICmp:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstLoad:
		return []*value.Value{&i.Src}, true
	case *ir.InstStore:
		return []*value.Value{&i.Src, &i.Dst}, true
	case *ir.InstAlloca:
		if i.NElems != nil {
			return []*value.Value{&i.NElems}, true
		}
		return nil, true
	case *ir.InstGetElementPtr:
		ptrs := []*value.Value{&i.Src}
		for idx := range i.Indices {
			ptrs = append(ptrs, &i.Indices[idx])
		}
		return ptrs, true
	case *ir.InstTrunc:
		return []*value.Value{&i.From}, true
	case *ir.InstZExt:
		return []*value.Value{&i.From}, true
	case *ir.InstSExt:
		return []*value.Value{&i.From}, true
	case *ir.InstBitCast:
		return []*value.Value{&i.From}, true
	case *ir.InstPtrToInt:
		return []*value.Value{&i.From}, true
	case *ir.InstIntToPtr:
		return []*value.Value{&i.From}, true
	case *ir.InstCall:
		ptrs := []*value.Value{&i.Callee}
		for idx := range i.Args {
			ptrs = append(ptrs, &i.Args[idx])
		}
		return ptrs, true
	case *ir.InstPhi:
		var ptrs []*value.Value
		for _, inc := range i.Incs {
			ptrs = append(ptrs, &inc.X)
		}
		return ptrs, true
	default:
		return nil, false
	}
}

// termOperands returns pointers to the non-label value operands of term.
func termOperands(term ir.Terminator) ([]*value.Value, bool) {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X != nil {
			return []*value.Value{&t.X}, true
		}
		return nil, true
	case *ir.TermBr:
		return nil, true
	case *ir.TermCondBr:
		return []*value.Value{&t.Cond}, true
	case *ir.TermSwitch:
		return []*value.Value{&t.X}, true
	case *ir.TermUnreachable:
		return nil, true
	default:
		return nil, false
	}
}

// fullyModeled reports whether every instruction and terminator in f is of a
// kind the operand rewriter understands.
func fullyModeled(f *ir.Func) bool {
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if _, ok := instOperands(inst); !ok {
				return false
			}
		}
		if _, ok := termOperands(b.Term); !ok {
			return false
		}
	}
	return true
}

// replaceUses rewrites every operand in f that is identical to old so that
// it references new instead. The caller must have checked fullyModeled.
func replaceUses(f *ir.Func, old, new value.Value) {
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			ptrs, _ := instOperands(inst)
			for _, p := range ptrs {
				if *p == old {
					*p = new
				}
			}
		}
		ptrs, _ := termOperands(b.Term)
		for _, p := range ptrs {
			if *p == old {
				*p = new
			}
		}
	}
}
