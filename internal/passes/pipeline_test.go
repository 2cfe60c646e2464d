package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGates(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Gates
	}{
		{
			name: "level 0 leaves everything off except inlining policy",
			opts: Options{OptLevel: 0, SizeLevel: 0},
			want: Gates{Inline: true},
		},
		{
			name: "level 1 enables link-time sequence and unrolling only",
			opts: Options{OptLevel: 1, SizeLevel: 0},
			want: Gates{Inline: true, UnrollLoops: true, StandardLink: true},
		},
		{
			name: "level 2 enables vectorization",
			opts: Options{OptLevel: 2, SizeLevel: 0},
			want: Gates{Inline: true, LoopVectorize: true, SLPVectorize: true, UnrollLoops: true, StandardLink: true},
		},
		{
			name: "size level 2 suppresses vectorization",
			opts: Options{OptLevel: 3, SizeLevel: 2},
			want: Gates{Inline: true, UnrollLoops: true, StandardLink: true},
		},
		{
			name: "explicit disables win",
			opts: Options{OptLevel: 3, DisableInline: true, DisableLoopVectorization: true, DisableSLPVectorization: true},
			want: Gates{UnrollLoops: true, StandardLink: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeGates(tt.opts))
		})
	}
}

func TestStandardPipelineLevel0IsEmpty(t *testing.T) {
	r := NewRegistry()
	p, err := r.Standard(Options{OptLevel: 0})
	require.NoError(t, err)
	assert.Empty(t, p.FunctionPasses)
	assert.Empty(t, p.ModulePasses)
}

func TestStandardPipelineLevel2(t *testing.T) {
	r := NewRegistry()
	p, err := r.Standard(Options{OptLevel: 2})
	require.NoError(t, err)

	var names []string
	for _, fp := range p.FunctionPasses {
		names = append(names, fp.Name())
	}
	assert.Equal(t, []string{"constfold", "simplifycfg", "dce"}, names)
	require.Len(t, p.ModulePasses, 1)
	assert.Equal(t, "globaldce", p.ModulePasses[0].Name())
}

func TestStandardPipelineDisableInlineEmptiesIPOSlot(t *testing.T) {
	r := NewRegistry()
	p, err := r.Standard(Options{OptLevel: 2, DisableInline: true})
	require.NoError(t, err)
	assert.Empty(t, p.ModulePasses)
}

func TestStandardPipelineDisableOptimizations(t *testing.T) {
	r := NewRegistry()
	p, err := r.Standard(Options{OptLevel: 3, DisableOptimizations: true})
	require.NoError(t, err)
	assert.Empty(t, p.FunctionPasses)
	assert.Empty(t, p.ModulePasses)
}

func TestPipelineRun(t *testing.T) {
	m := parse(t, `define i32 @main() {
entry:
	%a = add i32 20, 22
	ret i32 %a
}
`)
	r := NewRegistry()
	p, err := r.Standard(Options{OptLevel: 2, VerifyEach: true})
	require.NoError(t, err)

	changed, err := p.Run(m)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, m.Funcs[0].Blocks[0].Insts, "Constant arithmetic should be folded away")
}

func TestRegistryUnknownPass(t *testing.T) {
	r := NewRegistry()
	_, err := r.FunctionPass("no-such-pass")
	assert.Error(t, err)
	_, err = r.ModulePass("no-such-pass")
	assert.Error(t, err)
}
