/*
NAME
  value.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package value defines the scalar, 2-vector, color and typed-parameter
// value model shared by the manifest, property sampler and modulator
// packages.
package value

import "fmt"

// Vec2 is a 2-component vector used for position and scale.
type Vec2 struct {
	X, Y float64
}

// Add returns the componentwise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Lerp linearly interpolates componentwise between a and b at progress p.
func Lerp(a, b, p float64) float64 { return a + (b-a)*p }

// LerpVec2 linearly interpolates componentwise between a and b at progress p.
func LerpVec2(a, b Vec2, p float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, p), Lerp(a.Y, b.Y, p)}
}

// Color is a straight (non-premultiplied) RGBA color with channels in
// [0,1].
type Color struct {
	R, G, B, A float64
}

// Clamp01 clamps x to the closed interval [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamped returns c with every channel clamped to [0,1].
func (c Color) Clamped() Color {
	return Color{Clamp01(c.R), Clamp01(c.G), Clamp01(c.B), Clamp01(c.A)}
}

// Kind identifies a parameter/property's declared type.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindVec2
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVec2:
		return "vec2"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// ParseKind parses a manifest "type:" string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "float":
		return KindFloat, nil
	case "int":
		return KindInt, nil
	case "bool":
		return KindBool, nil
	case "vec2":
		return KindVec2, nil
	case "color":
		return KindColor, nil
	default:
		return KindFloat, fmt.Errorf("unknown parameter type %q", s)
	}
}

// Value is a tagged parameter value in one of the five Kinds.
type Value struct {
	Kind  Kind
	Float float64 // used for KindFloat and KindInt (truncated on read).
	Bool  bool
	Vec2  Vec2
	Color Color
}

// Int returns the integer value, truncating toward zero.
func (v Value) Int() int { return int(v.Float) }

// String renders v compactly with %g formatting, as shown by the explain
// and params subcommands and compared by Equal. The canonical hash does not
// use it; manifest's canonicalValue formats values for hashing.
func (v Value) String() string {
	switch v.Kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindInt:
		return fmt.Sprintf("%d", v.Int())
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindVec2:
		return fmt.Sprintf("(%g,%g)", v.Vec2.X, v.Vec2.Y)
	case KindColor:
		return fmt.Sprintf("(%g,%g,%g,%g)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values carry the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.String() == o.String() && v.Kind == o.Kind
}
