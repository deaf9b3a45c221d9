/*
NAME
  software.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package software implements the deterministic CPU rasterizer backend
// (§4.6): one of the two backends required to produce bit-identical RGBA
// for every layer kind with a defined CPU reference.
package software

import (
	"fmt"
	"image"
	"math"

	"github.com/vcrfx/vcr/ascii"
	"github.com/vcrfx/vcr/assetcache"
	"github.com/vcrfx/vcr/compositor"
	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/raster"
	"github.com/vcrfx/vcr/scene"
	"github.com/vcrfx/vcr/value"
)

// Backend rasterizes evaluated layer states into compositor surfaces
// using the deterministic software path.
type Backend struct {
	Cache *assetcache.Cache

	// ASCIIEdgeBoost, ASCIIBayerDither and ASCIISmoothGlyphs mirror the
	// CLI's --ascii-edge-boost/--ascii-bayer-dither/--ascii-smooth-glyphs
	// toggles (§9). ASCIISmoothGlyphs defaults off: stage 5's spec-literal
	// binary nearest-sampled atlas test is the default rendering path,
	// not the antialiased perceptual blend.
	ASCIIEdgeBoost    bool
	ASCIIBayerDither  bool
	ASCIISmoothGlyphs bool

	// asciiStates holds each ascii layer's hysteresis memory, keyed by
	// layer ID, across RasterizeFrame calls within one render.
	asciiStates map[string]*ascii.State
}

// New returns a software backend with a fresh asset cache.
func New() *Backend {
	return &Backend{Cache: assetcache.New()}
}

// Name identifies the backend for metadata sidecars.
func (b *Backend) Name() string { return "software" }

// RasterizeLayer produces a canvas-sized surface for one evaluated layer
// state. A layer kind with no CPU reference is skipped: it yields an empty,
// zero-opacity surface together with a non-empty reason.
func (b *Backend) RasterizeLayer(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	if !ls.Visible || ls.Opacity <= 0 {
		return emptySurface(env.Width, env.Height, ls.Opacity), "", nil
	}

	switch ls.Layer.Kind {
	case manifest.LayerProcedural:
		return b.rasterProcedural(env, ls)
	case manifest.LayerImage:
		return b.rasterImage(env, ls)
	case manifest.LayerSequence:
		return b.rasterSequence(env, ls)
	case manifest.LayerText:
		return b.rasterText(env, ls)
	case manifest.LayerASCII:
		return b.rasterASCII(env, ls)
	case manifest.LayerShader:
		return b.rasterShader(env, ls, 0)
	case manifest.LayerAsset:
		return emptySurface(env.Width, env.Height, 0), "asset layers require the external media library, not available in software mode", nil
	default:
		return nil, "", fmt.Errorf("unknown layer kind %v", ls.Layer.Kind)
	}
}

func emptySurface(w, h int, opacity float64) *compositor.Surface {
	return &compositor.Surface{Width: w, Height: h, Pix: make([]float64, w*h*4), Opacity: opacity}
}

// rasterProcedural shades every canvas pixel directly: solid returns the
// fixed color, gradient mixes color_a/color_b along the chosen axis in
// straight (non-premultiplied) RGBA (§4.6).
func (b *Backend) rasterProcedural(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	p := ls.Layer.Procedural
	surf := emptySurface(env.Width, env.Height, ls.Opacity)
	for y := 0; y < env.Height; y++ {
		for x := 0; x < env.Width; x++ {
			var c struct{ r, g, b, a float64 }
			if !p.Gradient {
				c.r, c.g, c.b, c.a = p.Color.R, p.Color.G, p.Color.B, p.Color.A
			} else {
				var t float64
				if p.Direction == manifest.Horizontal {
					t = (float64(x) + 0.5) / float64(env.Width)
				} else {
					t = (float64(y) + 0.5) / float64(env.Height)
				}
				c.r = lerp(p.ColorA.R, p.ColorB.R, t)
				c.g = lerp(p.ColorA.G, p.ColorB.G, t)
				c.b = lerp(p.ColorA.B, p.ColorB.B, t)
				c.a = lerp(p.ColorA.A, p.ColorB.A, t)
			}
			i := (y*env.Width + x) * 4
			surf.Pix[i], surf.Pix[i+1], surf.Pix[i+2], surf.Pix[i+3] = c.r, c.g, c.b, c.a
		}
	}
	return surf, "", nil
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// rasterImage decodes (and caches) the source texture, computes the
// layer's quad, and bilinearly (or nearest-) samples it onto the canvas.
func (b *Backend) rasterImage(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	img, err := b.Cache.Image(ls.Layer.Image.Path)
	if err != nil {
		return nil, "", fmt.Errorf("image: %w", err)
	}
	return rasterSourceImage(env, ls, img, ls.Layer.Image.SampleMode), "", nil
}

// rasterSequence reports that sequence layers cannot be resolved without
// a frame index; RasterizeLayer only reaches this arm when RasterizeFrame
// is bypassed (a programming error, not a runtime condition).
func (b *Backend) rasterSequence(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	return nil, "", fmt.Errorf("sequence layers must be rasterized via RasterizeFrame")
}

// RasterizeFrame is the per-frame entry point used by the render
// orchestrator: it threads the output frame index through to sequence
// layers, which the per-layer dispatch in RasterizeLayer alone cannot
// resolve (frame index is not part of LayerState).
func (b *Backend) RasterizeFrame(env manifest.Environment, sc *scene.Scene) ([]*compositor.Surface, []string, error) {
	surfaces := make([]*compositor.Surface, 0, len(sc.Layers))
	reasons := make([]string, 0, len(sc.Layers))
	for _, ls := range sc.Layers {
		var surf *compositor.Surface
		var reason string
		var err error
		switch {
		case ls.Layer.Kind == manifest.LayerSequence && ls.Visible && ls.Opacity > 0:
			surf, reason, err = b.rasterSequenceFrame(env, ls, sc.Frame)
		case ls.Layer.Kind == manifest.LayerASCII && ls.Layer.ASCII.SequenceDir != "" && ls.Visible && ls.Opacity > 0:
			surf, reason, err = b.rasterASCIIFrame(env, ls, sc.Frame)
		case ls.Layer.Kind == manifest.LayerShader && ls.Visible && ls.Opacity > 0:
			surf, reason, err = b.rasterShader(env, ls, sc.Frame)
		default:
			surf, reason, err = b.RasterizeLayer(env, ls)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("layer %q: %w", ls.ID, err)
		}
		surf.Mode = compositor.Foreground
		surfaces = append(surfaces, surf)
		reasons = append(reasons, reason)
	}
	return surfaces, reasons, nil
}

func (b *Backend) rasterSequenceFrame(env manifest.Environment, ls scene.LayerState, outFrame int) (*compositor.Surface, string, error) {
	sp := ls.Layer.Sequence
	idx := int(math.Floor(float64(outFrame)/float64(env.FPS)*float64(sp.SourceFPS))) + sp.Offset + sp.FirstIndex

	count, err := b.Cache.SequenceCount(sp.Dir)
	if err != nil {
		return nil, "", fmt.Errorf("sequence: %w", err)
	}
	if count == 0 {
		return nil, "", fmt.Errorf("sequence: empty directory %q", sp.Dir)
	}
	rel := idx - sp.FirstIndex
	switch sp.Loop {
	case manifest.LoopWrap:
		rel = ((rel % count) + count) % count
	default: // LoopClamp
		if rel < 0 {
			rel = 0
		}
		if rel >= count {
			rel = count - 1
		}
	}

	img, err := b.Cache.SequenceFrame(sp.Dir, rel)
	if err != nil {
		return nil, "", fmt.Errorf("sequence: %w", err)
	}
	return rasterSourceImage(env, ls, img, sp.SampleMode), "", nil
}

func rasterSourceImage(env manifest.Environment, ls scene.LayerState, img image.Image, mode manifest.SampleMode) *compositor.Surface {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	q := raster.ComputeQuad(srcW, srcH, ls.Scale.X, ls.Scale.Y, ls.RotationDeg, ls.Position.X, ls.Position.Y)

	surf := emptySurface(env.Width, env.Height, ls.Opacity)
	for y := 0; y < env.Height; y++ {
		for x := 0; x < env.Width; x++ {
			u, v, ok := q.Contains(float64(x)+0.5, float64(y)+0.5)
			if !ok {
				continue
			}
			var r, g, bl, a float64
			if mode == manifest.SampleNearest {
				r, g, bl, a = sampleNearest(img, bounds, u, v)
			} else {
				r, g, bl, a = sampleBilinear(img, bounds, u, v)
			}
			i := (y*env.Width + x) * 4
			surf.Pix[i], surf.Pix[i+1], surf.Pix[i+2], surf.Pix[i+3] = r, g, bl, a
		}
	}
	return surf
}

// sampleBilinear samples img at UV in [0,1]^2 with clamp-to-edge
// filtering, returning straight (non-premultiplied) RGBA in [0,1]. At
// exact pixel-center alignment (scale 1, rotation 0, integer position)
// this degenerates to an exact read of the source pixel (§4.6 passthrough
// property).
func sampleBilinear(img image.Image, bounds image.Rectangle, u, v float64) (r, g, b, a float64) {
	w, h := bounds.Dx(), bounds.Dy()
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := readPixel(img, bounds, x0, y0)
	c10 := readPixel(img, bounds, x0+1, y0)
	c01 := readPixel(img, bounds, x0, y0+1)
	c11 := readPixel(img, bounds, x0+1, y0+1)

	lerp4 := func(a0, a1 [4]float64, t float64) [4]float64 {
		return [4]float64{
			a0[0] + (a1[0]-a0[0])*t,
			a0[1] + (a1[1]-a0[1])*t,
			a0[2] + (a1[2]-a0[2])*t,
			a0[3] + (a1[3]-a0[3])*t,
		}
	}
	top := lerp4(c00, c10, tx)
	bot := lerp4(c01, c11, tx)
	out := lerp4(top, bot, ty)
	return out[0], out[1], out[2], out[3]
}

func sampleNearest(img image.Image, bounds image.Rectangle, u, v float64) (r, g, b, a float64) {
	w, h := bounds.Dx(), bounds.Dy()
	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))
	c := readPixel(img, bounds, x, y)
	return c[0], c[1], c[2], c[3]
}

// readPixel reads a source pixel with clamp-to-edge addressing and
// un-premultiplies it to straight alpha in [0,1].
func readPixel(img image.Image, bounds image.Rectangle, x, y int) [4]float64 {
	if x < 0 {
		x = 0
	}
	if x >= bounds.Dx() {
		x = bounds.Dx() - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= bounds.Dy() {
		y = bounds.Dy() - 1
	}
	r16, g16, b16, a16 := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	a := float64(a16) / 65535
	if a == 0 {
		return [4]float64{0, 0, 0, 0}
	}
	return [4]float64{
		(float64(r16) / 65535) / a,
		(float64(g16) / 65535) / a,
		(float64(b16) / 65535) / a,
		a,
	}
}

// rasterShader evaluates the layer's fragment program over every canvas
// pixel. Only the two embedded programs named by §4.6's "declares a
// reference CPU implementation" allowance are supported in software mode;
// a file-based or unrecognised shader name is skipped with a reason,
// matching the degrade-to-CPU-or-skip rule.
func (b *Backend) rasterShader(env manifest.Environment, ls scene.LayerState, frame int) (*compositor.Surface, string, error) {
	sp := ls.Layer.Shader
	t := float64(frame) / float64(env.FPS)

	var shade func(u, v float64) (r, g, bl, a float64)
	switch sp.Name {
	case "plasma":
		shade = plasmaShader(sp.Uniforms, t)
	case "vignette":
		shade = vignetteShader(sp.Uniforms, t)
	default:
		return emptySurface(env.Width, env.Height, 0),
			fmt.Sprintf("shader %q has no software reference implementation", sp.Name), nil
	}

	surf := emptySurface(env.Width, env.Height, ls.Opacity)
	for y := 0; y < env.Height; y++ {
		for x := 0; x < env.Width; x++ {
			u := (float64(x) + 0.5) / float64(env.Width)
			v := (float64(y) + 0.5) / float64(env.Height)
			r, g, bl, a := shade(u, v)
			i := (y*env.Width + x) * 4
			surf.Pix[i], surf.Pix[i+1], surf.Pix[i+2], surf.Pix[i+3] = r, g, bl, a
		}
	}
	return surf, "", nil
}

// shaderFloat reads a numeric uniform by name, falling back to def when
// absent or not a float/int-kinded value.
func shaderFloat(u map[string]value.Value, name string, def float64) float64 {
	v, ok := u[name]
	if !ok || (v.Kind != value.KindFloat && v.Kind != value.KindInt) {
		return def
	}
	return v.Float
}

// plasmaShader reproduces naga's evaluated output for the embedded
// "plasma" fragment program: a sum of sine waves over UV space and time,
// mapped through an HSV-like palette. frequency and speed are the only
// uniforms; both default to 1.
func plasmaShader(u map[string]value.Value, t float64) func(uCoord, vCoord float64) (r, g, b, a float64) {
	freq := shaderFloat(u, "frequency", 1)
	speed := shaderFloat(u, "speed", 1)
	return func(uc, vc float64) (r, g, b, a float64) {
		x, y := uc*freq*math.Pi*2, vc*freq*math.Pi*2
		phase := t * speed
		v := math.Sin(x+phase) + math.Sin(y*1.3-phase) + math.Sin((x+y)*0.7+phase*0.5)
		v = (v/3 + 1) / 2 // fold [-3,3] sum into [0,1]
		r = (math.Sin(v*math.Pi*2) + 1) / 2
		g = (math.Sin(v*math.Pi*2+2.094) + 1) / 2 // +2π/3
		b = (math.Sin(v*math.Pi*2+4.189) + 1) / 2 // +4π/3
		return r, g, b, 1
	}
}

// vignetteShader reproduces naga's evaluated output for the embedded
// "vignette" fragment program: a radial darkening falloff from the UV
// center, static in time. radius and softness default to 0.75 and 0.45.
func vignetteShader(u map[string]value.Value, _ float64) func(uCoord, vCoord float64) (r, g, b, a float64) {
	radius := shaderFloat(u, "radius", 0.75)
	softness := shaderFloat(u, "softness", 0.45)
	return func(uc, vc float64) (r, g, b, a float64) {
		dx, dy := uc-0.5, vc-0.5
		dist := math.Sqrt(dx*dx + dy*dy)
		lo := radius - softness
		hi := radius
		shade := 1 - smoothstep(lo, hi, dist)
		return shade, shade, shade, 1
	}
}

// smoothstep is the standard Hermite interpolation used by shader
// languages (and naga) for edge falloffs, clamped to [0,1] at the bounds.
func smoothstep(lo, hi, x float64) float64 {
	if lo == hi {
		if x < lo {
			return 0
		}
		return 1
	}
	t := (x - lo) / (hi - lo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// rasterText draws the layer's text with the bundled pixel font at
// nearest filtering (§4.6), then places it at the layer's quad.
func (b *Backend) rasterText(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	img := renderTextGlyphs(ls.Layer.Text)
	return rasterSourceImage(env, ls, img, manifest.SampleNearest), "", nil
}

// rasterASCII handles the inline-text ascii variant, which needs no
// frame index: RasterizeFrame routes sequence-backed ascii layers to
// rasterASCIIFrame instead.
func (b *Backend) rasterASCII(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	img, err := ascii.RenderLayer(ls.Layer.ASCII, env.Width, env.Height, b.ASCIISmoothGlyphs)
	if err != nil {
		return nil, "", fmt.Errorf("ascii: %w", err)
	}
	return rasterSourceImage(env, ls, img, manifest.SampleNearest), "", nil
}

// rasterASCIIFrame runs the §4.8 post-processing pipeline against a
// sequence-directory frame, threading persistent hysteresis state for
// the layer across calls.
func (b *Backend) rasterASCIIFrame(env manifest.Environment, ls scene.LayerState, outFrame int) (*compositor.Surface, string, error) {
	ap := ls.Layer.ASCII
	srcImg, err := b.rasterASCIISource(env, ls, outFrame)
	if err != nil {
		return nil, "", fmt.Errorf("ascii: %w", err)
	}

	cellW, cellH := ap.CellWidth, ap.CellHeight
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	bounds := srcImg.Bounds()
	cols := bounds.Dx() / cellW
	rows := bounds.Dy() / cellH
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	st := b.asciiState(ls.ID)
	out, _, err := ascii.Run(srcImg, ascii.Config{
		Cols: cols, Rows: rows, RampLength: 10,
		EdgeBoost: b.ASCIIEdgeBoost, BayerDither: b.ASCIIBayerDither,
		Hysteresis: true, HysteresisBand: 8,
		CellWidth: cellW, CellHeight: cellH,
		Foreground: ap.Foreground, Background: ap.Background,
		SmoothGlyphs: b.ASCIISmoothGlyphs,
	}, st, outFrame)
	if err != nil {
		return nil, "", fmt.Errorf("ascii: %w", err)
	}
	return rasterSourceImage(env, ls, out, manifest.SampleNearest), "", nil
}

func (b *Backend) rasterASCIISource(env manifest.Environment, ls scene.LayerState, outFrame int) (image.Image, error) {
	sp := ls.Layer.ASCII
	count, err := b.Cache.SequenceCount(sp.SequenceDir)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("empty sequence directory %q", sp.SequenceDir)
	}
	idx := outFrame % count
	if idx < 0 {
		idx += count
	}
	return b.Cache.SequenceFrame(sp.SequenceDir, idx)
}

// asciiState returns the per-layer hysteresis state buffer, creating one
// on first use; this is the only inter-frame state the backend keeps
// (§4.8 stage 4, §5 shared-resource model).
func (b *Backend) asciiState(layerID string) *ascii.State {
	if b.asciiStates == nil {
		b.asciiStates = make(map[string]*ascii.State)
	}
	st, ok := b.asciiStates[layerID]
	if !ok {
		st = &ascii.State{}
		b.asciiStates[layerID] = st
	}
	return st
}
