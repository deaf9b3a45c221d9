/*
NAME
  compositor.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package compositor alpha-blends an ordered stack of rasterized layer
// surfaces into a single canvas-sized RGBA frame (§4.7). The math is
// floating point throughout; quantization to 8-bit happens only at the
// final write, so both rasterizer backends can share identical rounding.
package compositor

import (
	"image"
	"math"
)

// BlendMode names how a surface composites against the destination.
type BlendMode int

const (
	// Foreground is standard straight-over-straight alpha compositing.
	Foreground BlendMode = iota
	// Background composites the surface under the destination: the roles
	// of source and destination swap in the color numerator only, not in
	// the alpha formula (§4.7).
	Background
)

// pixel is an un-quantized floating-point RGBA sample in [0,1] per
// channel, straight (non-premultiplied) alpha.
type pixel struct {
	r, g, b, a float64
}

// Surface is one layer's rasterized output: a canvas-sized straight-alpha
// RGBA buffer plus its compositing opacity and blend mode.
type Surface struct {
	Width, Height int
	Pix           []float64 // r,g,b,a per pixel, row-major, len == Width*Height*4.
	Opacity       float64
	Mode          BlendMode
}

// at returns the pixel at (x,y).
func (s *Surface) at(x, y int) pixel {
	i := (y*s.Width + x) * 4
	return pixel{s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3]}
}

// Canvas is the floating-point accumulation target. NewCanvas returns it
// cleared to transparent black (§4.7); Composite blends onto whatever the
// canvas already holds and does not clear it.
type Canvas struct {
	Width, Height int
	pix           []float64
}

// NewCanvas allocates a canvas cleared to transparent black.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, pix: make([]float64, w*h*4)}
}

func (c *Canvas) at(x, y int) pixel {
	i := (y*c.Width + x) * 4
	return pixel{c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3]}
}

func (c *Canvas) set(x, y int, p pixel) {
	i := (y*c.Width + x) * 4
	c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3] = p.r, p.g, p.b, p.a
}

// Composite blends surfaces, in ascending z-order (caller's
// responsibility), onto c in place.
func Composite(c *Canvas, surfaces []*Surface) {
	for _, s := range surfaces {
		blendSurface(c, s)
	}
}

func blendSurface(c *Canvas, s *Surface) {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			src := s.at(x, y)
			src.a *= s.Opacity
			dst := c.at(x, y)
			c.set(x, y, blendPixel(src, dst, s.Mode))
		}
	}
}

// blendPixel implements the exact alpha-over formula of §4.7: output
// alpha is the standard Porter-Duff "over" alpha regardless of blend
// mode; only the color numerator's source/destination roles swap for
// Background.
func blendPixel(src, dst pixel, mode BlendMode) pixel {
	oa := src.a + dst.a*(1-src.a)
	if oa <= 0 {
		return pixel{}
	}

	var rn, gn, bn float64
	if mode == Background {
		rn = dst.r*dst.a + src.r*src.a*(1-dst.a)
		gn = dst.g*dst.a + src.g*src.a*(1-dst.a)
		bn = dst.b*dst.a + src.b*src.a*(1-dst.a)
	} else {
		rn = src.r*src.a + dst.r*dst.a*(1-src.a)
		gn = src.g*src.a + dst.g*dst.a*(1-src.a)
		bn = src.b*src.a + dst.b*dst.a*(1-src.a)
	}

	return pixel{rn / oa, gn / oa, bn / oa, oa}
}

// ToRGBA quantizes c to 8-bit using round-half-to-even, clamped to
// [0,255] (§4.7). Go's image.RGBA stores alpha-premultiplied samples, so
// color channels are multiplied by alpha before quantization; this is
// what makes a half-transparent white canvas round-trip to (128,128,128,128)
// rather than (255,255,255,128).
func ToRGBA(c *Canvas) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			p := c.at(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = quantize(p.r * p.a)
			img.Pix[i+1] = quantize(p.g * p.a)
			img.Pix[i+2] = quantize(p.b * p.a)
			img.Pix[i+3] = quantize(p.a)
		}
	}
	return img
}

// ToStraightBytes quantizes c to 8-bit straight (non-premultiplied) RGBA
// bytes, row-major, no padding: the wire format the encoder sink writes
// to its subprocess (§4.9), distinct from ToRGBA's premultiplied
// image.RGBA used for in-process PNG encoding.
func ToStraightBytes(c *Canvas) []byte {
	out := make([]byte, c.Width*c.Height*4)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			p := c.at(x, y)
			i := (y*c.Width + x) * 4
			out[i] = quantize(p.r)
			out[i+1] = quantize(p.g)
			out[i+2] = quantize(p.b)
			out[i+3] = quantize(p.a)
		}
	}
	return out
}

// quantize rounds a [0,1] channel value to an 8-bit byte using
// round-half-to-even ("banker's rounding"), clamped to [0,255].
func quantize(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	scaled := v * 255
	r := math.RoundToEven(scaled)
	if r < 0 {
		r = 0
	}
	if r > 255 {
		r = 255
	}
	return uint8(r)
}
