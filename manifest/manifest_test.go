/*
NAME
  manifest_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrfx/vcr/value"
	"github.com/vcrfx/vcr/vcrerr"
)

const minimalManifest = `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
layers:
  - id: bg
    procedural:
      color: {r: 1, g: 0, b: 0, a: 1}
`

func TestLoadMinimalManifest(t *testing.T) {
	r, err := load(minimalManifest, "/tmp", nil)
	require.NoError(t, err)
	assert.Equal(t, 64, r.Environment.Width)
	assert.Equal(t, 10, r.Environment.FrameCount)
	require.Len(t, r.Layers, 1)
	assert.Equal(t, "bg", r.Layers[0].ID)
	assert.Equal(t, LayerProcedural, r.Layers[0].Kind)
}

func TestHashIsStable(t *testing.T) {
	r1, err := load(minimalManifest, "/tmp", nil)
	require.NoError(t, err)
	r2, err := load(minimalManifest, "/tmp", nil)
	require.NoError(t, err)
	assert.Equal(t, r1.Hash, r2.Hash)
}

func TestResolvedParamsAreDeepEqualAcrossLoads(t *testing.T) {
	r1, err := load(minimalManifest, "/tmp", nil)
	require.NoError(t, err)
	r2, err := load(minimalManifest, "/tmp", nil)
	require.NoError(t, err)
	if diff := cmp.Diff(r1.Params, r2.Params, cmp.Comparer(value.Value.Equal)); diff != "" {
		t.Errorf("resolved params differ across identical loads (-r1 +r2):\n%s", diff)
	}
}

func TestHashChangesWithOverride(t *testing.T) {
	withParam := `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
params:
  speed: 1.0
layers:
  - id: bg
    rotation: "${speed}"
    procedural:
      color: {r: 1, g: 0, b: 0, a: 1}
`
	base, err := load(withParam, "/tmp", nil)
	require.NoError(t, err)
	overridden, err := load(withParam, "/tmp", []string{"speed=2.0"})
	require.NoError(t, err)
	assert.NotEqual(t, base.Hash, overridden.Hash)
}

func TestUnknownOverrideRejected(t *testing.T) {
	_, err := load(minimalManifest, "/tmp", []string{"nope=1"})
	assert.Error(t, err)
	assert.Equal(t, vcrerr.Usage, vcrerr.KindOf(err))
}

func TestDuplicateLayerIDRejected(t *testing.T) {
	dup := `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
layers:
  - id: bg
    procedural: {color: {r: 1, g: 0, b: 0, a: 1}}
  - id: bg
    procedural: {color: {r: 0, g: 1, b: 0, a: 1}}
`
	_, err := load(dup, "/tmp", nil)
	assert.Error(t, err)
}

func TestEscapedTokenIsLiteral(t *testing.T) {
	m := `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
params:
  name: 1.0
layers:
  - id: bg
    name: "$${name}"
    procedural: {color: {r: 1, g: 0, b: 0, a: 1}}
`
	r, err := load(m, "/tmp", nil)
	require.NoError(t, err)
	assert.Equal(t, "${name}", r.Layers[0].Name)
}

func TestPartialInterpolationRejected(t *testing.T) {
	m := `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
params:
  name: 1.0
layers:
  - id: "prefix-${name}-suffix"
    procedural: {color: {r: 1, g: 0, b: 0, a: 1}}
`
	_, err := load(m, "/tmp", nil)
	assert.Error(t, err)
}

func TestPathTraversalRejected(t *testing.T) {
	m := `
environment:
  resolution: {width: 64, height: 64}
  fps: 24
  duration: {frames: 10}
layers:
  - id: img
    image:
      path: "../outside.png"
`
	_, err := load(m, "/tmp/manifests", nil)
	assert.Error(t, err)
}
