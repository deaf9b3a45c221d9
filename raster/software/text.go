/*
NAME
  text.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package software

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/value"
)

// renderTextGlyphs rasterizes a TextPayload with the bundled 7x13 pixel
// font at nearest filtering (§4.6, §9: "the bundled pixel font"). The
// font is a fixed-size bitmap face from the standard x/image font
// package, so no external font file is required.
func renderTextGlyphs(tp manifest.TextPayload) image.Image {
	face := basicfont.Face7x13
	scale := tp.Size / 13.0
	if scale <= 0 {
		scale = 1
	}

	w := font.MeasureString(face, tp.Text).Ceil()
	h := face.Metrics().Height.Ceil()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	nearest := image.NewNRGBA(image.Rect(0, 0, w, h))
	col := toNRGBA(tp.Color)
	d := &font.Drawer{
		Dst:  nearest,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(tp.Text)

	if scale == 1 {
		return nearest
	}
	outW, outH := int(float64(w)*scale), int(float64(h)*scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx := int(float64(x) / scale)
			sy := int(float64(y) / scale)
			if sx >= w {
				sx = w - 1
			}
			if sy >= h {
				sy = h - 1
			}
			scaled.Set(x, y, nearest.At(sx, sy))
		}
	}
	return scaled
}

func toNRGBA(c value.Color) color.NRGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
