package passes

import (
	"regexp"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// The IR toolkit keeps no use-lists, so liveness questions are answered
// against the printed form: an identifier is in use iff it occurs in the
// rendered text of an instruction, terminator or initializer. Printing never
// omits an operand, so this over-approximates uses, which is the safe
// direction for dead-code removal.

var (
	localRef  = regexp.MustCompile(`%("[^"]*"|[-a-zA-Z$._][-a-zA-Z$._0-9]*|[0-9]+)`)
	globalRef = regexp.MustCompile(`@("[^"]*"|[-a-zA-Z$._][-a-zA-Z$._0-9]*|[0-9]+)`)
)

func unquote(name string) string {
	if strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) && len(name) >= 2 {
		return name[1 : len(name)-1]
	}
	return name
}

// addLocalRefs records every %local referenced by text into used.
func addLocalRefs(used map[string]bool, text string) {
	for _, m := range localRef.FindAllStringSubmatch(text, -1) {
		used[unquote(m[1])] = true
	}
}

// usedLocals collects the names of all locals referenced as operands
// anywhere in f. The defining occurrence of a value instruction ("%x = ...")
// is not counted as a use of %x.
func usedLocals(f *ir.Func) map[string]bool {
	used := make(map[string]bool)
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			text := inst.LLString()
			if named, ok := inst.(value.Named); ok && !types.Equal(named.Type(), types.Void) {
				if i := strings.Index(text, " = "); i >= 0 {
					text = text[i+3:]
				}
			}
			addLocalRefs(used, text)
		}
		addLocalRefs(used, b.Term.LLString())
	}
	return used
}

// globalRefCounts counts occurrences of every @global identifier in the
// printed module. A symbol's own definition contributes exactly one
// occurrence, so a count above one means the symbol is referenced.
func globalRefCounts(m *ir.Module) map[string]int {
	counts := make(map[string]int)
	for _, match := range globalRef.FindAllStringSubmatch(m.String(), -1) {
		counts[unquote(match[1])]++
	}
	return counts
}
