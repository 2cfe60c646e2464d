package passes

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// namedLocal is the slice of the value interface the renamer needs. Every
// parameter, block and value instruction embeds ir.LocalIdent, which
// provides it. Name() alone cannot distinguish an unnamed local: for those
// it returns the decimal slot ID.
type namedLocal interface {
	value.Named
	IsUnnamed() bool
}

// normalizeNames gives every unnamed parameter, block and value instruction
// in f an explicit name not otherwise used in the function. Passes that
// delete instructions rely on this: sequentially numbered locals become
// invalid as soon as one of them is removed, whereas named locals stay
// printable and reparseable.
func normalizeNames(f *ir.Func) {
	taken := make(map[string]bool)
	for _, p := range f.Params {
		taken[unquote(p.Name())] = true
	}
	for _, b := range f.Blocks {
		taken[unquote(b.Name())] = true
		for _, inst := range b.Insts {
			if named, ok := inst.(namedLocal); ok {
				taken[unquote(named.Name())] = true
			}
		}
	}

	next := func(format string) func() string {
		n := 0
		return func() string {
			for {
				name := fmt.Sprintf(format, n)
				n++
				if !taken[name] {
					taken[name] = true
					return name
				}
			}
		}
	}
	freshValue := next("t%d")
	freshBlock := next("bb%d")

	for _, p := range f.Params {
		if p.IsUnnamed() {
			p.SetName(freshValue())
		}
	}
	for _, b := range f.Blocks {
		if b.IsUnnamed() {
			b.SetName(freshBlock())
		}
		for _, inst := range b.Insts {
			named, ok := inst.(namedLocal)
			if !ok || !named.IsUnnamed() {
				continue
			}
			// Void-typed instructions carry no result to name.
			if types.Equal(named.Type(), types.Void) {
				continue
			}
			named.SetName(freshValue())
		}
	}
}
