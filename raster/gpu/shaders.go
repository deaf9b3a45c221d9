/*
NAME
  shaders.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package gpu

import (
	"fmt"
	"math"

	"github.com/vcrfx/vcr/value"
)

// vertexWGSL draws a full-screen triangle (the standard 3-vertex,
// no-vertex-buffer trick) and derives a [0,1]^2 UV per fragment, UV
// origin top-left to match the software backend's pixel-center UV
// convention (§4.6: "for a UV in [0,1]^2").
const vertexWGSL = `
struct VertexOut {
  @builtin(position) pos: vec4<f32>,
  @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOut {
  var positions = array<vec2<f32>, 3>(
    vec2<f32>(-1.0, -1.0),
    vec2<f32>(3.0, -1.0),
    vec2<f32>(-1.0, 3.0),
  );
  var out: VertexOut;
  let p = positions[idx];
  out.pos = vec4<f32>(p, 0.0, 1.0);
  out.uv = vec2<f32>((p.x + 1.0) / 2.0, 1.0 - (p.y + 1.0) / 2.0);
  return out;
}
`

// solidColorWGSL reproduces the procedural "solid" reference (§4.6): the
// fragment shader returns the fixed straight-RGBA color for every pixel.
func solidColorWGSL(c value.Color) string {
	return fmt.Sprintf(`
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
  let straight = vec4<f32>(%s, %s, %s, %s);
  return vec4<f32>(straight.rgb * straight.a, straight.a);
}
`, f32(c.R), f32(c.G), f32(c.B), f32(c.A))
}

// gradientWGSL reproduces the procedural "gradient" reference (§4.6):
// mix(color_a, color_b, uv.x) for horizontal, uv.y for vertical, in
// straight (non-premultiplied) RGBA, premultiplied only at the very end
// to match the compositor's premultiplied-alpha-over convention.
func gradientWGSL(a, b value.Color, horizontal bool) string {
	axis := "in.uv.y"
	if horizontal {
		axis = "in.uv.x"
	}
	return fmt.Sprintf(`
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
  let a = vec4<f32>(%s, %s, %s, %s);
  let b = vec4<f32>(%s, %s, %s, %s);
  let straight = mix(a, b, %s);
  return vec4<f32>(straight.rgb * straight.a, straight.a);
}
`, f32(a.R), f32(a.G), f32(a.B), f32(a.A), f32(b.R), f32(b.G), f32(b.B), f32(b.A), axis)
}

// plasmaWGSL reproduces the software backend's plasmaShader reference
// exactly (raster/software/software.go): a sum of three sine waves over
// UV space and time, folded into [0,1] and mapped through a 3-channel
// phase-offset sine palette. frequency, speed and the evaluated time t
// are baked in as literals since this package recompiles per distinct
// shader source rather than carrying a uniform buffer (§9: determinism
// over performance at this scale).
func plasmaWGSL(frequency, speed, t float64) string {
	phase := t * speed
	return fmt.Sprintf(`
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
  let freq = %s;
  let phase = %s;
  let x = in.uv.x * freq * 6.283185307179586;
  let y = in.uv.y * freq * 6.283185307179586;
  var v = sin(x + phase) + sin(y * 1.3 - phase) + sin((x + y) * 0.7 + phase * 0.5);
  v = (v / 3.0 + 1.0) / 2.0;
  let r = (sin(v * 6.283185307179586) + 1.0) / 2.0;
  let g = (sin(v * 6.283185307179586 + 2.0943951023931953) + 1.0) / 2.0;
  let bch = (sin(v * 6.283185307179586 + 4.188790204786391) + 1.0) / 2.0;
  return vec4<f32>(r, g, bch, 1.0);
}
`, f32(frequency), f32(phase))
}

// vignetteWGSL reproduces the software backend's vignetteShader reference
// exactly: a radial darkening falloff from the UV center using the
// standard Hermite smoothstep, static in time.
func vignetteWGSL(radius, softness float64) string {
	lo := radius - softness
	hi := radius
	return fmt.Sprintf(`
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
  let center = vec2<f32>(0.5, 0.5);
  let d = distance(in.uv, center);
  let shade = 1.0 - smoothstep(%s, %s, d);
  return vec4<f32>(shade, shade, shade, 1.0);
}
`, f32(lo), f32(hi))
}

// f32 formats a float64 as a WGSL f32 literal with enough precision to
// round-trip, always carrying a decimal point so the WGSL lexer accepts
// it as a float rather than an abstract integer.
func f32(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := fmt.Sprintf("%g", v)
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return s
		}
	}
	return s + ".0"
}
