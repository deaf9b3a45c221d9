/*
NAME
  quad.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package raster holds the quad transform math shared by both rasterizer
// backends (§4.6): a layer's intrinsic-sized source is scaled, rotated
// about its own center, and translated to its canvas position.
package raster

import "math"

// Quad is the transformed placement of a layer's intrinsic-sized source
// on the canvas: center position (pixels, canvas top-left origin),
// half-extents after scaling, and rotation in radians.
type Quad struct {
	CenterX, CenterY   float64
	HalfW, HalfH        float64
	RotationRad         float64
}

// ComputeQuad builds a Quad from a layer's intrinsic size, sampled scale,
// rotation and position (§4.6: "multiply by scale, rotate by rotation_deg
// around the scaled center, translate by position").
func ComputeQuad(srcW, srcH int, scaleX, scaleY, rotationDeg, posX, posY float64) Quad {
	w := float64(srcW) * scaleX
	h := float64(srcH) * scaleY
	return Quad{
		CenterX:     posX + w/2,
		CenterY:     posY + h/2,
		HalfW:       w / 2,
		HalfH:       h / 2,
		RotationRad: rotationDeg * math.Pi / 180,
	}
}

// Invert maps a canvas pixel coordinate back into the quad's local
// [-HalfW,HalfW] x [-HalfH,HalfH] space, undoing rotation and
// translation, so a rasterizer can test containment and sample UV.
func (q Quad) Invert(x, y float64) (lx, ly float64) {
	dx := x - q.CenterX
	dy := y - q.CenterY
	cos, sin := math.Cos(-q.RotationRad), math.Sin(-q.RotationRad)
	lx = dx*cos - dy*sin
	ly = dx*sin + dy*cos
	return lx, ly
}

// Contains reports whether the canvas pixel (x,y) falls within the quad,
// and if so returns its UV in [0,1]^2 (origin top-left of the source).
func (q Quad) Contains(x, y float64) (u, v float64, ok bool) {
	if q.HalfW <= 0 || q.HalfH <= 0 {
		return 0, 0, false
	}
	lx, ly := q.Invert(x, y)
	if lx < -q.HalfW || lx > q.HalfW || ly < -q.HalfH || ly > q.HalfH {
		return 0, 0, false
	}
	u = (lx + q.HalfW) / (2 * q.HalfW)
	v = (ly + q.HalfH) / (2 * q.HalfH)
	return u, v, true
}
