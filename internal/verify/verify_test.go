package verify

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlc/internal/errors"
)

func TestValidModule(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("main", types.I32)
	entry := f.NewBlock("entry")
	entry.NewRet(constant.NewInt(types.I32, 0))

	assert.NoError(t, Module(m))
}

func TestDeclarationIsValid(t *testing.T) {
	m := ir.NewModule()
	m.NewFunc("extern", types.Void)

	assert.NoError(t, Module(m))
}

func TestMissingTerminator(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("broken", types.I32)
	f.NewBlock("entry")

	err := Module(m)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindVerify))
	assert.Contains(t, err.Error(), "lacks a terminator")
}

func TestReturnTypeMismatch(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("wrong", types.I32)
	entry := f.NewBlock("entry")
	entry.NewRet(constant.NewInt(types.I64, 1))

	err := Module(m)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindVerify))
}

func TestVoidReturnWithValue(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("v", types.Void)
	entry := f.NewBlock("entry")
	entry.NewRet(constant.NewInt(types.I32, 1))

	err := Module(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returns void")
}

func TestMissingReturnValue(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("missing", types.I32)
	entry := f.NewBlock("entry")
	entry.NewRet(nil)

	err := Module(m)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindVerify))
}

func TestDuplicateSymbols(t *testing.T) {
	m := ir.NewModule()
	for i := 0; i < 2; i++ {
		f := m.NewFunc("twice", types.I32)
		f.NewBlock("entry").NewRet(constant.NewInt(types.I32, int64(i)))
	}

	err := Module(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate global symbol")
}
