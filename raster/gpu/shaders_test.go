/*
NAME
  shaders_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package gpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcrfx/vcr/value"
)

// These exercise only the pure WGSL source generation (no device, no
// naga), since a real adapter is not assumed to be present wherever this
// suite runs.

func TestSolidColorWGSL(t *testing.T) {
	src := solidColorWGSL(value.Color{R: 1, G: 0, B: 0, A: 1})
	require.Contains(t, src, "fn fs_main")
	require.Contains(t, src, "vec4<f32>(1.0, 0.0, 0.0, 1.0)")
}

func TestGradientWGSLAxis(t *testing.T) {
	h := gradientWGSL(value.Color{R: 1}, value.Color{G: 1}, true)
	require.Contains(t, h, "in.uv.x")
	require.NotContains(t, h, "mix(a, b, in.uv.y)")

	v := gradientWGSL(value.Color{R: 1}, value.Color{G: 1}, false)
	require.Contains(t, v, "in.uv.y")
}

func TestPlasmaWGSLBakesUniforms(t *testing.T) {
	src := plasmaWGSL(2, 3, 10)
	require.Contains(t, src, "let freq = 2.0")
	require.Contains(t, src, "let phase = 30.0") // speed * t baked in directly.
}

func TestVignetteWGSLBakesRadiusBand(t *testing.T) {
	src := vignetteWGSL(0.75, 0.45)
	require.True(t, strings.Contains(src, "smoothstep(0.3"))
}

func TestF32AlwaysHasDecimalPoint(t *testing.T) {
	require.Equal(t, "1.0", f32(1))
	require.Equal(t, "0.0", f32(0))
	require.Equal(t, "-0.5", f32(-0.5))
}

func TestShaderUniformFloatDefault(t *testing.T) {
	require.Equal(t, 1.0, shaderUniformFloat(nil, "frequency", 1))

	u := map[string]value.Value{"frequency": {Kind: value.KindFloat, Float: 4}}
	require.Equal(t, 4.0, shaderUniformFloat(u, "frequency", 1))

	boolU := map[string]value.Value{"frequency": {Kind: value.KindBool, Bool: true}}
	require.Equal(t, 1.0, shaderUniformFloat(boolU, "frequency", 1))
}
