/*
NAME
  software_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package software

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/scene"
	"github.com/vcrfx/vcr/value"
)

func testEnv() manifest.Environment {
	return manifest.Environment{Width: 4, Height: 4, FPS: 30, FrameCount: 90}
}

func baseLayerState(kind manifest.LayerKind) scene.LayerState {
	return scene.LayerState{
		ID: "l0", Visible: true, Opacity: 1,
		Scale: value.Vec2{X: 1, Y: 1},
		Layer: manifest.Layer{ID: "l0", Kind: kind},
	}
}

func TestRasterizeLayerSolidProcedural(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerProcedural)
	ls.Layer.Procedural = manifest.ProceduralPayload{
		Color: value.Color{R: 1, G: 0.5, B: 0, A: 1},
	}
	surf, reason, err := b.RasterizeLayer(testEnv(), ls)
	require.NoError(t, err)
	require.Empty(t, reason)
	require.Equal(t, 1.0, surf.Pix[0])
	require.Equal(t, 0.5, surf.Pix[1])
	require.Equal(t, 0.0, surf.Pix[2])
	require.Equal(t, 1.0, surf.Pix[3])
	// Every pixel is the same solid color.
	last := len(surf.Pix) - 4
	require.Equal(t, surf.Pix[0], surf.Pix[last])
}

func TestRasterizeLayerGradientProcedural(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerProcedural)
	ls.Layer.Procedural = manifest.ProceduralPayload{
		Gradient:  true,
		ColorA:    value.Color{R: 0, A: 1},
		ColorB:    value.Color{R: 1, A: 1},
		Direction: manifest.Horizontal,
	}
	env := testEnv()
	surf, _, err := b.RasterizeLayer(env, ls)
	require.NoError(t, err)
	leftR := surf.Pix[0]
	rightI := (0*env.Width + (env.Width - 1)) * 4
	rightR := surf.Pix[rightI]
	require.Less(t, leftR, rightR)
}

func TestRasterizeLayerInvisibleIsEmpty(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerProcedural)
	ls.Visible = false
	ls.Layer.Procedural = manifest.ProceduralPayload{Color: value.Color{R: 1, A: 1}}
	surf, reason, err := b.RasterizeLayer(testEnv(), ls)
	require.NoError(t, err)
	require.Empty(t, reason)
	for _, p := range surf.Pix {
		require.Zero(t, p)
	}
}

func TestRasterShaderPlasmaVaries(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerShader)
	ls.Layer.Shader = manifest.ShaderPayload{Name: "plasma"}
	env := testEnv()

	surf0, reason, err := b.rasterShader(env, ls, 0)
	require.NoError(t, err)
	require.Empty(t, reason)
	surf10, _, err := b.rasterShader(env, ls, 10)
	require.NoError(t, err)

	require.NotEqual(t, surf0.Pix, surf10.Pix)
	for _, p := range surf0.Pix {
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}
}

func TestRasterShaderVignetteDarkensCorners(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerShader)
	ls.Layer.Shader = manifest.ShaderPayload{Name: "vignette"}
	env := manifest.Environment{Width: 8, Height: 8, FPS: 30}

	surf, _, err := b.rasterShader(env, ls, 0)
	require.NoError(t, err)

	centerI := (4*env.Width + 4) * 4
	cornerI := (0*env.Width + 0) * 4
	require.Greater(t, surf.Pix[centerI], surf.Pix[cornerI])
}

func TestRasterShaderUnknownNameSkips(t *testing.T) {
	b := New()
	ls := baseLayerState(manifest.LayerShader)
	ls.Layer.Shader = manifest.ShaderPayload{Name: "raymarch-galaxy"}

	surf, reason, err := b.rasterShader(testEnv(), ls, 0)
	require.NoError(t, err)
	require.NotEmpty(t, reason)
	require.Contains(t, reason, "raymarch-galaxy")
	for _, p := range surf.Pix {
		require.Zero(t, p)
	}
}

func TestShaderFloatFallsBackToDefault(t *testing.T) {
	require.Equal(t, 2.0, shaderFloat(nil, "frequency", 2))
	u := map[string]value.Value{"frequency": {Kind: value.KindFloat, Float: 5}}
	require.Equal(t, 5.0, shaderFloat(u, "frequency", 2))
	boolU := map[string]value.Value{"frequency": {Kind: value.KindBool, Bool: true}}
	require.Equal(t, 2.0, shaderFloat(boolU, "frequency", 2))
}

func TestSmoothstepClampsAndInterpolates(t *testing.T) {
	require.Equal(t, 0.0, smoothstep(0, 1, -1))
	require.Equal(t, 1.0, smoothstep(0, 1, 2))
	require.Equal(t, 0.5, smoothstep(0, 1, 0.5))
	require.Equal(t, 1.0, smoothstep(1, 1, 1))
}
