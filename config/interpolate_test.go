package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestInterpolate_Scalar(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[hp]\ndropout = 0.2\n[training]\ndropout = ${hp.dropout}\n")

	out, err := Interpolate(tree)
	require.NoError(t, err)
	assert.True(t, cty.MustParseNumberVal("0.2").RawEquals(leafAt(t, out, "training.dropout")))

	// The input tree keeps its placeholder.
	v, _ := tree.GetPath("training.dropout")
	assert.True(t, v.IsPlaceholder())
}

func TestInterpolate_ChainedPlaceholders(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[a]\nx = ${b.y}\n[b]\ny = ${c.z}\n[c]\nz = 7\n")

	out, err := Interpolate(tree)
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(7).RawEquals(leafAt(t, out, "a.x")))
	assert.True(t, cty.NumberIntVal(7).RawEquals(leafAt(t, out, "b.y")))
}

func TestInterpolate_InsideComposites(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[hp]\nlr = 0.01\n[sched]\nrates = [\"${hp.lr}\", 0.1]\nby_name = {\"warmup\": \"${hp.lr}\"}\n")

	out, err := Interpolate(tree)
	require.NoError(t, err)

	rates := leafAt(t, out, "sched.rates")
	require.True(t, rates.Type().IsTupleType())
	assert.True(t, cty.MustParseNumberVal("0.01").RawEquals(rates.Index(cty.NumberIntVal(0))))

	byName := leafAt(t, out, "sched.by_name")
	require.True(t, byName.Type().IsObjectType())
	assert.True(t, cty.MustParseNumberVal("0.01").RawEquals(byName.GetAttr("warmup")))
}

func TestInterpolate_SectionSplice(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[defaults]\nlr = 0.01\nbeta = 0.9\n[opt]\nparams = ${defaults}\n")

	out, err := Interpolate(tree)
	require.NoError(t, err)

	params, ok := out.GetPath("opt.params")
	require.True(t, ok)
	require.True(t, params.IsSection(), "a placeholder resolving to a section splices the section in")
	assert.True(t, cty.MustParseNumberVal("0.01").RawEquals(leafAt(t, out, "opt.params.lr")))
}

func TestInterpolate_SubstitutionIsACopy(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[defaults]\nlr = 0.01\n[opt]\nparams = ${defaults}\n")

	out, err := Interpolate(tree)
	require.NoError(t, err)

	// Mutating the substituted copy must not reach the original section.
	params, _ := out.GetPath("opt.params")
	params.Section()["lr"] = LeafVal(cty.NumberIntVal(999))
	assert.True(t, cty.MustParseNumberVal("0.01").RawEquals(leafAt(t, out, "defaults.lr")))
}

func TestInterpolate_Idempotent(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[hp]\ndropout = 0.2\n[training]\ndropout = ${hp.dropout}\n")

	once, err := Interpolate(tree)
	require.NoError(t, err)
	twice, err := Interpolate(once)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
}

func TestInterpolate_UnresolvedReference(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "[a]\nx = ${nope.path}\n")

	_, err := Interpolate(tree)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "nope.path", refErr.Path)
}

func TestInterpolate_CycleDetection(t *testing.T) {
	t.Parallel()

	t.Run("two-step cycle", func(t *testing.T) {
		t.Parallel()
		tree := mustParse(t, "[a]\nx = ${b.y}\n[b]\ny = ${a.x}\n")
		_, err := Interpolate(tree)
		var cycErr *CycleError
		require.ErrorAs(t, err, &cycErr)
	})

	t.Run("self reference", func(t *testing.T) {
		t.Parallel()
		tree := mustParse(t, "[a]\nx = ${a.x}\n")
		_, err := Interpolate(tree)
		var cycErr *CycleError
		require.ErrorAs(t, err, &cycErr)
		assert.Equal(t, "a.x", cycErr.Path)
	})
}

func TestInterpolate_PathThroughLeafFails(t *testing.T) {
	t.Parallel()

	// b is an object leaf, not a section; paths do not descend into leaves.
	tree := mustParse(t, "[a]\nb = {\"c\": 1}\n[d]\nx = ${a.b.c}\n")

	_, err := Interpolate(tree)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "a.b.c", refErr.Path)
}
