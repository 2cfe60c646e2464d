package passes

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// SimplifyCFG folds conditional branches on constant conditions into plain
// branches and removes blocks that become unreachable from the entry block.
// Phi nodes in surviving blocks are pruned of incomings from blocks that no
// longer branch to them, whether the predecessor was removed or merely
// retargeted.
type SimplifyCFG struct{}

func (s *SimplifyCFG) Name() string {
	return "simplifycfg"
}

func (s *SimplifyCFG) Description() string {
	return "Folds constant branches and removes unreachable blocks"
}

func (s *SimplifyCFG) Apply(f *ir.Func) bool {
	if len(f.Blocks) == 0 {
		return false
	}
	normalizeNames(f)

	changed := false
	for _, b := range f.Blocks {
		br, ok := b.Term.(*ir.TermCondBr)
		if !ok {
			continue
		}
		cond, ok := br.Cond.(*constant.Int)
		if !ok {
			continue
		}
		target := br.TargetTrue
		if cond.X.Sign() == 0 {
			target = br.TargetFalse
		}
		b.Term = &ir.TermBr{Target: target}
		changed = true
	}

	if removeUnreachable(f) {
		changed = true
	}
	if prunePhis(f) {
		changed = true
	}
	return changed
}

// removeUnreachable drops every block not reachable from the entry block.
func removeUnreachable(f *ir.Func) bool {
	reachable := make(map[*ir.Block]bool)
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if reachable[b] {
			return
		}
		reachable[b] = true
		if b.Term == nil {
			return
		}
		for _, succ := range b.Term.Succs() {
			walk(succ)
		}
	}
	walk(f.Blocks[0])

	if len(reachable) == len(f.Blocks) {
		return false
	}

	kept := f.Blocks[:0]
	for _, b := range f.Blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}
	f.Blocks = kept
	return true
}

// prunePhis drops phi incomings whose nominal predecessor no longer
// branches to the phi's block. This covers both removed blocks and blocks
// whose folded terminator was retargeted away.
func prunePhis(f *ir.Func) bool {
	preds := make(map[*ir.Block]map[*ir.Block]bool)
	for _, b := range f.Blocks {
		if b.Term == nil {
			continue
		}
		for _, succ := range b.Term.Succs() {
			if preds[succ] == nil {
				preds[succ] = make(map[*ir.Block]bool)
			}
			preds[succ][b] = true
		}
	}

	changed := false
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			phi, ok := inst.(*ir.InstPhi)
			if !ok {
				continue
			}
			incs := phi.Incs[:0]
			for _, inc := range phi.Incs {
				if pred, ok := inc.Pred.(*ir.Block); ok && !preds[b][pred] {
					changed = true
					continue
				}
				incs = append(incs, inc)
			}
			phi.Incs = incs
		}
	}
	return changed
}
