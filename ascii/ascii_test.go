package ascii

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/value"
)

func TestRec709LumaReference(t *testing.T) {
	// Pure white maps to luma 1, pure black to 0; green dominates the
	// weighting per the Rec.709 coefficients (§8 testable property 9).
	assert.InDelta(t, 1.0, Rec709Luma(1, 1, 1), 1e-9)
	assert.InDelta(t, 0.0, Rec709Luma(0, 0, 0), 1e-9)
	assert.InDelta(t, 0.7152, Rec709Luma(0, 1, 0), 1e-9)
	assert.InDelta(t, 0.2126, Rec709Luma(1, 0, 0), 1e-9)
	assert.InDelta(t, 0.0722, Rec709Luma(0, 0, 1), 1e-9)
}

func TestQuantizeGlyphMapping(t *testing.T) {
	// Dark luma maps to the densest glyph (high id); light luma maps to
	// the sparsest glyph (id 0) (§8 testable property 8).
	assert.Equal(t, 9, Quantize(0.0, 10))
	assert.Equal(t, 0, Quantize(1.0, 10))
	assert.Equal(t, 0, Quantize(0.999999, 10))
}

// gradientImage builds a w x h image whose luma increases linearly from
// black at x=0 to white at x=w-1, constant down each column.
func gradientImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(float64(x) / float64(w-1) * 255)
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestScenarioE_HorizontalGradientMonotonic(t *testing.T) {
	img := gradientImage(80*4, 40*4)
	grid := LumaGrid(img, 80, 40)

	ids := make([]int, 80)
	for x := 0; x < 80; x++ {
		ids[x] = Quantize(grid.at(x, 0), 10)
	}

	assert.Equal(t, 9, ids[0], "darkest column maps to densest glyph")
	assert.Equal(t, 0, ids[79], "lightest column maps to sparsest glyph")
	for x := 1; x < 80; x++ {
		assert.LessOrEqual(t, ids[x], ids[x-1], "glyph id must be non-increasing left to right")
	}
}

func TestHysteresisHoldsBelowBand(t *testing.T) {
	st := &State{}
	frame0 := gradientImage(80, 40)
	cfg := Config{Cols: 8, Rows: 4, RampLength: 10, Hysteresis: true, HysteresisBand: 64, CellWidth: 4, CellHeight: 4}

	_, h0, err := Run(frame0, cfg, st, 0)
	assert.NoError(t, err)

	// A frame whose luma is unchanged (a shift of zero, below the band)
	// should reuse frame 0's glyph ids under a wide hysteresis band (§4.8
	// stage 4).
	frame1 := gradientImage(80, 40)
	_, h1, err := Run(frame1, cfg, st, 1)
	assert.NoError(t, err)
	assert.Equal(t, h0.Mapped, h1.Mapped, "identical frames under hysteresis must map identically")
}

func TestHysteresisFrameZeroAlwaysRecomputes(t *testing.T) {
	st := &State{}
	img := gradientImage(80, 40)
	cfg := Config{Cols: 8, Rows: 4, RampLength: 10, Hysteresis: true, HysteresisBand: 0, CellWidth: 4, CellHeight: 4}

	out, _, err := Run(img, cfg, st, 0)
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.True(t, st.primed)
}

func TestRenderLayerInlineText(t *testing.T) {
	img, err := RenderLayer(manifest.ASCIIPayload{Text: "ab\ncd"}, 100, 100, false)
	assert.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 2*8, b.Dx())
	assert.Equal(t, 2*16, b.Dy())
}

// TestAtlasRenderDefaultIsBinary locks in §4.8 stage 5's literal wording:
// every output pixel is exactly the foreground or background color, never
// a blend, unless SmoothGlyphs opts into the antialiased enhancement.
func TestAtlasRenderDefaultIsBinary(t *testing.T) {
	fg := value.Color{R: 1, G: 1, B: 1, A: 1}
	bg := value.Color{R: 0, G: 0, B: 0, A: 1}
	atlas := BuildAtlas(8, 16, len(ramp), false)
	ids := make([]int, len(ramp))
	for i := range ids {
		ids[i] = i
	}
	out := atlas.Render(ids, len(ramp), 1, fg, bg)

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := out.At(x, y).RGBA()
			isFg := r == 65535 && g == 65535 && bl == 65535 && a == 65535
			isBg := r == 0 && g == 0 && bl == 0 && a == 65535
			assert.True(t, isFg || isBg, "pixel (%d,%d) is neither pure foreground nor pure background: %d,%d,%d,%d", x, y, r, g, bl, a)
		}
	}
}

func TestAtlasRenderSmoothCanBlend(t *testing.T) {
	fg := value.Color{R: 1, G: 1, B: 1, A: 1}
	bg := value.Color{R: 0, G: 0, B: 0, A: 1}
	atlas := BuildAtlas(8, 16, len(ramp), true)
	ids := []int{len(ramp) / 2}
	out := atlas.Render(ids, 1, 1, fg, bg)

	b := out.Bounds()
	var sawBlend bool
	for y := b.Min.Y; y < b.Max.Y && !sawBlend; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := out.At(x, y).RGBA()
			if (r != 0 && r != 65535) || (g != 0 && g != 65535) || (bl != 0 && bl != 65535) {
				sawBlend = true
				break
			}
		}
	}
	assert.True(t, sawBlend, "smooth atlas rendering should produce at least one blended pixel for a mid-ramp glyph")
}
