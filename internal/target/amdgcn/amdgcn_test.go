package amdgcn

import (
	"bytes"
	"testing"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlc/internal/errors"
	"hlc/internal/target"
)

const kernelIR = `define i32 @kernel(i32 %a, i32 %b) {
entry:
	%sum = add i32 %a, %b
	ret i32 %sum
}
`

func newMachine(t *testing.T) target.Machine {
	t.Helper()
	r := target.NewRegistry()
	Register(r)
	m, err := r.Lookup(target.AMDGCN())
	require.NoError(t, err)
	return m
}

func parse(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := asm.ParseString("kernel.ll", src)
	require.NoError(t, err)
	return m
}

func TestEmitAssemblyCarriesTargetMarker(t *testing.T) {
	machine := newMachine(t)
	out, err := machine.Emit(parse(t, kernelIR), target.EmitAssembly, target.Options{AsmVerbose: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "amdgcn", "Assembly should identify the architecture")
	assert.Contains(t, string(out), "kernel:", "Assembly should carry the function label")
}

func TestEmitAssemblyGolden(t *testing.T) {
	machine := newMachine(t)
	out, err := machine.Emit(parse(t, kernelIR), target.EmitAssembly, target.Options{AsmVerbose: true})
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "kernel_asm", out)
}

func TestEmitAssemblyQuietOmitsBody(t *testing.T) {
	machine := newMachine(t)
	out, err := machine.Emit(parse(t, kernelIR), target.EmitAssembly, target.Options{AsmVerbose: false})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "add i32", "Quiet assembly should omit IR comments")
	assert.Contains(t, string(out), "kernel:")
}

func TestEmitIsDeterministic(t *testing.T) {
	machine := newMachine(t)
	for _, kind := range []target.ArtifactKind{target.EmitAssembly, target.EmitObject} {
		first, err := machine.Emit(parse(t, kernelIR), kind, target.Options{AsmVerbose: true})
		require.NoError(t, err)
		second, err := machine.Emit(parse(t, kernelIR), kind, target.Options{AsmVerbose: true})
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second), "Emission of %s must be byte-identical", kind)
	}
}

func TestEmitObjectHeader(t *testing.T) {
	machine := newMachine(t)
	out, err := machine.Emit(parse(t, kernelIR), target.EmitObject, target.Options{})
	require.NoError(t, err)
	require.Greater(t, len(out), 5)
	assert.Equal(t, []byte("HLCO"), out[:4], "Object should carry the container magic")
	assert.Equal(t, byte(objectVersion), out[4])
	assert.Contains(t, string(out), "kernel", "Object should carry the symbol name")
}

func TestEmitObjectSkipsDeclarations(t *testing.T) {
	machine := newMachine(t)
	out, err := machine.Emit(parse(t, "declare void @ext()\n"), target.EmitObject, target.Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ext", "Declarations contribute no symbols")
}

func TestEmitUnsupportedKind(t *testing.T) {
	machine := newMachine(t)
	_, err := machine.Emit(parse(t, kernelIR), target.ArtifactKind(99), target.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedArtifact))
}

func TestDataLayout(t *testing.T) {
	machine := newMachine(t)
	assert.Contains(t, machine.DataLayout(), "p1:64:64")
}
