/*
NAME
  luma.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ascii implements the post-compositing ASCII pipeline (§4.8):
// luma downsample, optional ordered cell passes, quantization to a glyph
// ramp index, temporal hysteresis, and atlas rendering.
package ascii

import (
	"image"
	"math"
)

// Rec709Luma returns the Rec.709 relative luminance of a straight (r,g,b)
// triple in [0,1] (§4.8 stage 1, §8 testable property 9).
func Rec709Luma(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Grid is a cols x rows buffer of per-cell float values, row-major.
type Grid struct {
	Cols, Rows int
	V          []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(cols, rows int) *Grid {
	return &Grid{Cols: cols, Rows: rows, V: make([]float64, cols*rows)}
}

func (g *Grid) at(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if x >= g.Cols {
		x = g.Cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.Rows {
		y = g.Rows - 1
	}
	return g.V[y*g.Cols+x]
}

func (g *Grid) set(x, y int, v float64) { g.V[y*g.Cols+x] = v }

// clone returns a deep copy, used as ping-pong scratch between cell
// passes (§4.8 stage 2).
func (g *Grid) clone() *Grid {
	out := &Grid{Cols: g.Cols, Rows: g.Rows, V: make([]float64, len(g.V))}
	copy(out.V, g.V)
	return out
}

// LumaGrid downsamples img into a cols x rows grid of mean Rec.709
// luminance per cell (§4.8 stage 1).
func LumaGrid(img image.Image, cols, rows int) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	grid := NewGrid(cols, rows)

	for cy := 0; cy < rows; cy++ {
		y0 := cy * h / rows
		y1 := (cy + 1) * h / rows
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for cx := 0; cx < cols; cx++ {
			x0 := cx * w / cols
			x1 := (cx + 1) * w / cols
			if x1 <= x0 {
				x1 = x0 + 1
			}
			var sum float64
			n := 0
			for y := y0; y < y1 && y < h; y++ {
				for x := x0; x < x1 && x < w; x++ {
					r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					r := float64(r16) / 65535
					g := float64(g16) / 65535
					b := float64(b16) / 65535
					sum += Rec709Luma(r, g, b)
					n++
				}
			}
			if n == 0 {
				n = 1
			}
			grid.set(cx, cy, sum/float64(n))
		}
	}
	return grid
}

// EdgeBoost applies the finite-difference edge-darkening pass: edge =
// clamp((|dx|+|dy|)*gain, 0, 1), luma' = clamp(luma - edge*0.25, 0, 1)
// with gain 2.0 (§4.8 stage 2).
func EdgeBoost(g *Grid) *Grid {
	const gain = 2.0
	out := g.clone()
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			dx := g.at(x+1, y) - g.at(x-1, y)
			dy := g.at(x, y+1) - g.at(x, y-1)
			edge := clamp01((math.Abs(dx) + math.Abs(dy)) * gain)
			out.set(x, y, clamp01(g.at(x, y)-edge*0.25))
		}
	}
	return out
}

// bayer8 is the standard 8x8 Bayer ordered-dither threshold matrix.
var bayer8 = [8][8]int{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// OrderedDither applies an 8x8 Bayer-matrix threshold pass: luma' =
// clamp(luma + (T-0.5)*strength, 0, 1) (§4.8 stage 2).
func OrderedDither(g *Grid, strength float64) *Grid {
	out := g.clone()
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			t := (float64(bayer8[y%8][x%8]) + 0.5) / 64
			out.set(x, y, clamp01(g.at(x, y)+(t-0.5)*strength))
		}
	}
	return out
}

// DefaultDitherStrength returns 1/ramp_length, the spec's default ordered
// dither strength (§4.8 stage 2).
func DefaultDitherStrength(rampLength int) float64 {
	if rampLength <= 0 {
		return 0
	}
	return 1 / float64(rampLength)
}

// Quantize maps a luma value to a glyph ramp index: dark maps to dense
// (high id), light to sparse (low id) (§4.8 stage 3, §8 testable property
// 8).
func Quantize(luma float64, rampLength int) int {
	id := int(math.Floor((1 - luma) * float64(rampLength)))
	if id < 0 {
		id = 0
	}
	if id > rampLength-1 {
		id = rampLength - 1
	}
	return id
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
