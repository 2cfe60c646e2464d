package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlc/internal/target"
)

func TestNewRegistersBackend(t *testing.T) {
	s := New()
	assert.Equal(t, []string{"amdgcn"}, s.Targets().Archs())

	_, err := s.Targets().Lookup(target.AMDGCN())
	assert.NoError(t, err)
}

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.True(t, s.DisableSimplifyLibCalls, "Library call simplification is permanently off")
	assert.False(t, s.StripDebug)
	assert.False(t, s.FatalVerify)
	assert.NotNil(t, s.Logger())
}

func TestSessionsAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.StripDebug = true
	a.Targets().Unregister("amdgcn")

	assert.False(t, b.StripDebug)
	assert.Equal(t, []string{"amdgcn"}, b.Targets().Archs())
}

func TestSetCommandLineOptions(t *testing.T) {
	s := New()
	err := s.SetCommandLineOptions([]string{
		"-strip-debug",
		"-disable-inline",
		"-disable-loop-vectorization",
		"-disable-slp-vectorization",
		"-fatal-verify",
	})
	require.NoError(t, err)
	assert.True(t, s.StripDebug)
	assert.True(t, s.DisableInline)
	assert.True(t, s.DisableLoopVectorization)
	assert.True(t, s.DisableSLPVectorization)
	assert.True(t, s.FatalVerify)
	assert.False(t, s.DisableOptimizations)
}

func TestSetCommandLineOptionsUnknownFlag(t *testing.T) {
	s := New()
	err := s.SetCommandLineOptions([]string{"-strip-debug", "-no-such-flag"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-no-such-flag")
	assert.True(t, s.StripDebug, "Flags before the unknown one still apply")
}

func TestPipelineOptionsReflectToggles(t *testing.T) {
	s := New()
	s.DisableInline = true
	s.DisableSLPVectorization = true

	o := s.PipelineOptions(2, 1, true)
	assert.Equal(t, 2, o.OptLevel)
	assert.Equal(t, 1, o.SizeLevel)
	assert.True(t, o.DisableInline)
	assert.True(t, o.DisableSLPVectorization)
	assert.False(t, o.DisableLoopVectorization)
	assert.True(t, o.VerifyEach)
}

func TestClose(t *testing.T) {
	s := New()
	assert.False(t, s.Closed())

	s.Close()
	assert.True(t, s.Closed())
	assert.Nil(t, s.Targets())

	// Closing twice is harmless.
	s.Close()
	assert.True(t, s.Closed())
}
