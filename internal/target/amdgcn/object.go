package amdgcn

import (
	"encoding/binary"

	"github.com/llir/llvm/ir"

	"hlc/internal/target"
)

// Code object container layout, all integers uvarint-encoded:
//
//	magic "HLCO" | version byte | triple | cpu | features | data layout |
//	symbol count | symbols...
//
// Each symbol is: name | kind byte | code size | code bytes. The code bytes
// are the canonical lowered form of the symbol, so two emissions of the same
// module are byte-identical.

var objectMagic = [4]byte{'H', 'L', 'C', 'O'}

const objectVersion = 1

const (
	symbolKindFunc   = 0x01
	symbolKindGlobal = 0x02
)

func (m *machine) emitObject(mod *ir.Module, opts target.Options) []byte {
	var buf []byte
	buf = append(buf, objectMagic[:]...)
	buf = append(buf, objectVersion)
	buf = appendString(buf, m.desc.Triple)
	buf = appendString(buf, m.desc.CPU)
	buf = appendString(buf, m.desc.Features)
	buf = appendString(buf, datalayout)

	defined := 0
	for _, f := range mod.Funcs {
		if len(f.Blocks) > 0 {
			defined++
		}
	}
	buf = binary.AppendUvarint(buf, uint64(defined+len(mod.Globals)))

	for _, g := range mod.Globals {
		buf = appendString(buf, g.Name())
		buf = append(buf, symbolKindGlobal)
		buf = appendString(buf, g.LLString())
	}
	for _, f := range mod.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		buf = appendString(buf, f.Name())
		buf = append(buf, symbolKindFunc)
		buf = appendString(buf, f.LLString())
	}
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
