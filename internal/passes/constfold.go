package passes

import (
	"math/big"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ConstFold evaluates integer instructions with all-constant operands at
// compile time and replaces their uses with the computed constant. Folding
// repeats until a fixed point, so chains of constant arithmetic collapse in
// one run of the pass.
type ConstFold struct{}

func (cf *ConstFold) Name() string {
	return "constfold"
}

func (cf *ConstFold) Description() string {
	return "Evaluates constant integer expressions at compile time"
}

func (cf *ConstFold) Apply(f *ir.Func) bool {
	if len(f.Blocks) == 0 || !fullyModeled(f) {
		return false
	}
	normalizeNames(f)

	changed := false
	for {
		folded := false
		for _, b := range f.Blocks {
			kept := b.Insts[:0]
			for _, inst := range b.Insts {
				c := foldInst(inst)
				if c == nil {
					kept = append(kept, inst)
					continue
				}
				replaceUses(f, inst.(value.Named), c)
				folded = true
			}
			b.Insts = kept
		}
		if !folded {
			break
		}
		changed = true
	}
	return changed
}

// foldInst computes the constant result of inst, or nil when inst is not a
// foldable integer operation over constant operands.
func foldInst(inst ir.Instruction) *constant.Int {
	var x, y *constant.Int
	var op func(z, x, y *big.Int)

	switch i := inst.(type) {
	case *ir.InstAdd:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.Add(a, b) }
	case *ir.InstSub:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.Sub(a, b) }
	case *ir.InstMul:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.Mul(a, b) }
	case *ir.InstAnd:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.And(a, b) }
	case *ir.InstOr:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.Or(a, b) }
	case *ir.InstXor:
		x, y = intConsts(i.X, i.Y)
		op = func(z, a, b *big.Int) { z.Xor(a, b) }
	case *ir.InstUDiv:
		x, y = intConsts(i.X, i.Y)
		if y != nil && y.X.Sign() == 0 {
			return nil
		}
		op = func(z, a, b *big.Int) { z.Div(a, b) }
	case *ir.InstURem:
		x, y = intConsts(i.X, i.Y)
		if y != nil && y.X.Sign() == 0 {
			return nil
		}
		op = func(z, a, b *big.Int) { z.Mod(a, b) }
	default:
		return nil
	}
	if x == nil || y == nil {
		return nil
	}

	typ := x.Typ
	if !types.Equal(x.Typ, y.Typ) {
		return nil
	}

	z := new(big.Int)
	op(z, unsignedRep(x), unsignedRep(y))
	wrap(z, typ.BitSize)
	return &constant.Int{Typ: typ, X: z}
}

// intConsts returns both operands as integer constants, or nils.
func intConsts(a, b value.Value) (*constant.Int, *constant.Int) {
	x, okX := a.(*constant.Int)
	y, okY := b.(*constant.Int)
	if !okX || !okY {
		return nil, nil
	}
	return x, y
}

// unsignedRep interprets c's two's-complement bit pattern as a non-negative
// integer.
func unsignedRep(c *constant.Int) *big.Int {
	v := new(big.Int).Set(c.X)
	if v.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(c.Typ.BitSize))
		v.Add(v, mod)
	}
	return v
}

// wrap reduces z modulo 2^bits, matching the wrapping semantics of integer
// arithmetic in the IR.
func wrap(z *big.Int, bits uint64) {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	z.Mod(z, mod)
}
