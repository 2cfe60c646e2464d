package passes

import (
	"github.com/llir/llvm/ir"
)

// StripDebugInfo removes all debug metadata from a module: named metadata,
// metadata definitions and per-function attachments. The GPU backend makes
// no use of source-level debug info and stale metadata can fail verification
// after the surrounding code has been rewritten.
type StripDebugInfo struct{}

func (s *StripDebugInfo) Name() string {
	return "strip-debug"
}

func (s *StripDebugInfo) Description() string {
	return "Removes all debug metadata from the module"
}

func (s *StripDebugInfo) Apply(m *ir.Module) bool {
	changed := len(m.NamedMetadataDefs) > 0 || len(m.MetadataDefs) > 0
	m.NamedMetadataDefs = nil
	m.MetadataDefs = nil
	for _, f := range m.Funcs {
		if len(f.Metadata) > 0 {
			f.Metadata = nil
			changed = true
		}
	}
	for _, g := range m.Globals {
		if len(g.Metadata) > 0 {
			g.Metadata = nil
			changed = true
		}
	}
	return changed
}
