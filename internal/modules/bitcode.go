package modules

import (
	"bytes"

	"github.com/golang/snappy"
	"github.com/llir/llvm/asm"

	"hlc/internal/errors"
)

// Bitcode container: magic "HLCB", a version byte, then the textual IR
// compressed as one snappy block. The container is fully materialized on
// parse; there is no lazy loading.

var bitcodeMagic = []byte("HLCB")

const bitcodeVersion = 1

// EncodeBitcode serializes a live module into the bitcode container.
func EncodeBitcode(mod *Module) ([]byte, error) {
	text, err := mod.Print()
	if err != nil {
		return nil, err
	}
	body := snappy.Encode(nil, []byte(text))
	buf := make([]byte, 0, len(bitcodeMagic)+1+len(body))
	buf = append(buf, bitcodeMagic...)
	buf = append(buf, bitcodeVersion)
	return append(buf, body...), nil
}

// ParseBitcode parses a binary-encoded IR program. Every failure is a
// structured KindParse error; the caller decides whether to log it.
func ParseBitcode(name string, data []byte) (*Module, error) {
	if len(data) < len(bitcodeMagic)+1 || !bytes.Equal(data[:len(bitcodeMagic)], bitcodeMagic) {
		return nil, errors.New(errors.KindParse, errors.ErrorParseBitcode,
			"invalid bitcode wrapper in %q", name)
	}
	if v := data[len(bitcodeMagic)]; v != bitcodeVersion {
		return nil, errors.New(errors.KindParse, errors.ErrorParseBitcode,
			"unsupported bitcode version %d in %q", v, name)
	}
	text, err := snappy.Decode(nil, data[len(bitcodeMagic)+1:])
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, errors.ErrorParseBitcode, err,
			"corrupt bitcode body in %q", name)
	}
	m, err := asm.ParseBytes(name, text)
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, errors.ErrorParseBitcode, err,
			"cannot parse bitcode module %q", name)
	}
	return &Module{m: m}, nil
}
