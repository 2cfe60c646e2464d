package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlc/internal/errors"
	"hlc/internal/modules"
)

const kernelSrc = `define i32 @kernel() {
entry:
	%a = add i32 20, 22
	ret i32 %a
}
`

func TestFullScenario(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseText(kernelSrc)
	require.NoError(t, err)
	require.NotEqual(t, Handle(0), h)

	require.NoError(t, api.OptimizeModule(h, 3, 0, true))

	dump, err := api.PrintModule(h)
	require.NoError(t, err)
	assert.Contains(t, dump.Text(), "ret i32 42")
	require.NoError(t, dump.Release())

	asm, err := api.EmitAssembly(h, 3)
	require.NoError(t, err)
	assert.Contains(t, asm.Text(), "amdgcn")
	assert.Contains(t, asm.Text(), "kernel:")
	require.NoError(t, asm.Release())

	obj, err := api.EmitObject(h, 3)
	require.NoError(t, err)
	require.Greater(t, obj.Len(), 4)
	assert.Equal(t, []byte("HLCO"), obj.Bytes()[:4])
	require.NoError(t, obj.Release())

	require.NoError(t, api.DestroyModule(h))
}

func TestParseTextFailure(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseText("this is not IR")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParse))
	assert.Equal(t, Handle(0), h)
}

func TestParseBitcodeRoundTrip(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	src, err := modules.ParseText("kernel.ll", kernelSrc)
	require.NoError(t, err)
	data, err := modules.EncodeBitcode(src)
	require.NoError(t, err)

	h, err := api.ParseBitcode(data)
	require.NoError(t, err)

	dump, err := api.PrintModule(h)
	require.NoError(t, err)
	assert.Contains(t, dump.Text(), "@kernel")
}

func TestParseBitcodeFailure(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseBitcode([]byte("garbage"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParse))
	assert.Equal(t, Handle(0), h)
}

func TestDestroyedHandleIsRejected(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseText(kernelSrc)
	require.NoError(t, err)
	require.NoError(t, api.DestroyModule(h))

	_, err = api.PrintModule(h)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))

	err = api.DestroyModule(h)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	old, err := api.ParseText(kernelSrc)
	require.NoError(t, err)
	require.NoError(t, api.DestroyModule(old))

	// The arena reuses the freed slot under a new generation.
	fresh, err := api.ParseText(kernelSrc)
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)

	_, err = api.PrintModule(old)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))

	_, err = api.PrintModule(fresh)
	assert.NoError(t, err)
}

func TestZeroHandleIsNeverValid(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	_, err := api.PrintModule(0)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))
}

func TestOptimizeModuleRangeCheck(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseText(kernelSrc)
	require.NoError(t, err)

	err = api.OptimizeModule(h, 5, 0, false)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRange))

	err = api.OptimizeModule(h, 2, 3, false)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRange))

	_, err = api.EmitAssembly(h, -1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRange))
}

func TestLinkModules(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	dst, err := api.ParseText(kernelSrc)
	require.NoError(t, err)
	src, err := api.ParseText(`define i32 @helper() {
entry:
	ret i32 7
}
`)
	require.NoError(t, err)

	require.NoError(t, api.LinkModules(dst, src))

	dump, err := api.PrintModule(dst)
	require.NoError(t, err)
	assert.Contains(t, dump.Text(), "@kernel")
	assert.Contains(t, dump.Text(), "@helper")

	// The source handle stays live and unchanged.
	srcDump, err := api.PrintModule(src)
	require.NoError(t, err)
	assert.NotContains(t, srcDump.Text(), "@kernel")
}

func TestSetCommandLineOptions(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	require.NoError(t, api.SetCommandLineOptions("-strip-debug", "-disable-inline"))
	assert.True(t, api.Session().StripDebug)
	assert.True(t, api.Session().DisableInline)

	err := api.SetCommandLineOptions("-bogus")
	assert.Error(t, err)
}

func TestInstancesAreIndependent(t *testing.T) {
	a := Initialize()
	defer a.Finalize()
	b := Initialize()
	defer b.Finalize()

	h, err := a.ParseText(kernelSrc)
	require.NoError(t, err)

	// A handle from one instance means nothing to another.
	_, err = b.PrintModule(h)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))
}

func TestFinalizeDestroysLiveModules(t *testing.T) {
	api := Initialize()

	h, err := api.ParseText(kernelSrc)
	require.NoError(t, err)

	api.Finalize()
	assert.True(t, api.Session().Closed())

	_, err = api.PrintModule(h)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))
}

func TestArtifactRelease(t *testing.T) {
	api := Initialize()
	defer api.Finalize()

	h, err := api.ParseText(kernelSrc)
	require.NoError(t, err)

	art, err := api.PrintModule(h)
	require.NoError(t, err)
	require.Greater(t, art.Len(), 0)
	require.NotEmpty(t, art.Bytes())

	require.NoError(t, art.Release())
	assert.Nil(t, art.Bytes())
	assert.Equal(t, "", art.Text())
	assert.Equal(t, 0, art.Len())

	err = art.Release()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDestroyed))
}
