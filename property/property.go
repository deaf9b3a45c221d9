/*
NAME
  property.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package property implements the animated-field sampler: a property may
// be a static value, a keyframe segment, or (scalars only) an expression
// over the frame variable t.
package property

import (
	"fmt"
	"math"

	"github.com/vcrfx/vcr/expr"
	"github.com/vcrfx/vcr/value"
)

// Kind tags which arm of the property union is populated.
type Kind int

const (
	Static Kind = iota
	Keyframe
	Expression
)

// KeyframeScalar describes a scalar animation between two frame indices.
type KeyframeScalar struct {
	StartFrame, EndFrame int
	From, To             float64
	Easing               value.Easing
}

// KeyframeVec2 describes a 2-vector animation between two frame indices.
type KeyframeVec2 struct {
	StartFrame, EndFrame int
	From, To             value.Vec2
	Easing               value.Easing
}

// Scalar is a scalar-typed animated property.
type Scalar struct {
	Kind     Kind
	Static   float64
	Keyframe KeyframeScalar
	Expr     *expr.Expr
}

// Vec2 is a 2-vector-typed animated property. Vec2 properties have no
// expression arm (§3: expressions are scalars only).
type Vec2 struct {
	Kind     Kind
	Static   value.Vec2
	Keyframe KeyframeVec2
}

// progress computes the eased interpolation progress for frame within
// [start,end]. Frames at or before start clamp to 0 (from); at or after
// end clamp to 1 (to).
func progress(frame, start, end int, easing value.Easing) float64 {
	if frame <= start {
		return 0
	}
	if frame >= end {
		return 1
	}
	p := float64(frame-start) / float64(end-start)
	return easing.Apply(p)
}

// SampleScalar resolves a scalar property at the given frame.
func SampleScalar(p Scalar, frame int) (float64, error) {
	var v float64
	switch p.Kind {
	case Static:
		v = p.Static
	case Keyframe:
		k := p.Keyframe
		pr := progress(frame, k.StartFrame, k.EndFrame, k.Easing)
		v = value.Lerp(k.From, k.To, pr)
	case Expression:
		var err error
		v, err = p.Expr.Eval(float64(frame))
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown property kind %d", p.Kind)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("property evaluated to non-finite value at frame %d", frame)
	}
	return v, nil
}

// SampleVec2 resolves a 2-vector property at the given frame.
func SampleVec2(p Vec2, frame int) (value.Vec2, error) {
	var v value.Vec2
	switch p.Kind {
	case Static:
		v = p.Static
	case Keyframe:
		k := p.Keyframe
		pr := progress(frame, k.StartFrame, k.EndFrame, k.Easing)
		v = value.LerpVec2(k.From, k.To, pr)
	default:
		return value.Vec2{}, fmt.Errorf("unknown or unsupported vec2 property kind %d", p.Kind)
	}
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return value.Vec2{}, fmt.Errorf("vec2 property evaluated to non-finite value at frame %d", frame)
	}
	return v, nil
}

// ConstantScalar builds a static scalar property, a convenience used when
// decoding manifest defaults (e.g. opacity=1, rotation=0).
func ConstantScalar(v float64) Scalar { return Scalar{Kind: Static, Static: v} }

// ConstantVec2 builds a static vec2 property.
func ConstantVec2(v value.Vec2) Vec2 { return Vec2{Kind: Static, Static: v} }
