/*
NAME
  scene.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scene evaluates a resolved manifest at a single frame index,
// producing a per-layer render state. The evaluator is a pure function of
// (manifest, frame): no state survives between calls (§4.5).
package scene

import (
	"fmt"
	"math"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/modulator"
	"github.com/vcrfx/vcr/property"
	"github.com/vcrfx/vcr/value"
)

// LayerState is the evaluated, modulator-applied state of one layer at one
// frame.
type LayerState struct {
	ID       string
	Name     string
	StableID string
	Z        int
	Group    string

	Visible    bool
	Position   value.Vec2
	Scale      value.Vec2
	RotationDeg float64
	Opacity    float64

	Layer manifest.Layer // the source layer, for rasterizer dispatch.
}

// Scene is the evaluated state of every layer at one frame, in ascending
// z-order (already sorted by the manifest loader).
type Scene struct {
	Frame  int
	Layers []LayerState
}

// Evaluate samples every layer's animated properties at frame, applies
// modulator bindings, and evaluates visibility — a pure function of
// (r, frame) with no hidden state (§4.5).
func Evaluate(r *manifest.Resolved, frame int) (*Scene, error) {
	if frame < 0 || frame >= r.Environment.FrameCount {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", frame, r.Environment.FrameCount)
	}

	sc := &Scene{Frame: frame, Layers: make([]LayerState, 0, len(r.Layers))}
	for _, l := range r.Layers {
		st, err := evaluateLayer(r, l, frame)
		if err != nil {
			return nil, fmt.Errorf("layer %q at frame %d: %w", l.ID, frame, err)
		}
		sc.Layers = append(sc.Layers, st)
	}
	return sc, nil
}

func evaluateLayer(r *manifest.Resolved, l manifest.Layer, frame int) (LayerState, error) {
	pos, err := property.SampleVec2(l.Position, frame)
	if err != nil {
		return LayerState{}, fmt.Errorf("position: %w", err)
	}
	scale, err := property.SampleVec2(l.Scale, frame)
	if err != nil {
		return LayerState{}, fmt.Errorf("scale: %w", err)
	}
	rot, err := property.SampleScalar(l.Rotation, frame)
	if err != nil {
		return LayerState{}, fmt.Errorf("rotation: %w", err)
	}
	op, err := property.SampleScalar(l.Opacity, frame)
	if err != nil {
		return LayerState{}, fmt.Errorf("opacity: %w", err)
	}

	// Group each layer's modulator bindings by target property, in
	// declaration order, so every target runs through modulator.Composite's
	// base_value + Σ contribution_i rule (§4.5) — including its bounded-clamp
	// handling, rather than each property reimplementing its own summation.
	// Opacity is the only target the spec declares a bound for (§3: "clamped
	// to [0,1] at sampling"); every other target is an unbounded sum.
	byProperty := make(map[string][]modulator.Binding, len(l.Modulators))
	for _, b := range l.Modulators {
		mod, ok := r.Modulators[b.Name]
		if !ok {
			return LayerState{}, fmt.Errorf("modulators: unknown modulator %q", b.Name)
		}
		mod.Seed = r.Seed

		mb := modulator.Binding{Modulator: mod, Weight: b.Weight}
		switch b.Property {
		case "position.x", "position.y", "scale.x", "scale.y", "rotation":
		case "opacity":
			mb.Bounded, mb.Min, mb.Max = true, 0, 1
		default:
			return LayerState{}, fmt.Errorf("modulators: unknown target property %q", b.Property)
		}
		byProperty[b.Property] = append(byProperty[b.Property], mb)
	}

	fps := r.Environment.FPS
	pos.X = modulator.Composite(pos.X, frame, fps, byProperty["position.x"])
	pos.Y = modulator.Composite(pos.Y, frame, fps, byProperty["position.y"])
	scale.X = modulator.Composite(scale.X, frame, fps, byProperty["scale.x"])
	scale.Y = modulator.Composite(scale.Y, frame, fps, byProperty["scale.y"])
	rot = modulator.Composite(rot, frame, fps, byProperty["rotation"])
	op = modulator.Composite(op, frame, fps, byProperty["opacity"])

	if math.IsNaN(op) || math.IsInf(op, 0) {
		return LayerState{}, fmt.Errorf("opacity evaluated to non-finite value after modulation")
	}
	// Composite already clamps opacity via the Bounded binding above; this
	// guards the zero-binding case, where Composite is a pass-through of the
	// sampled base value and no clamp has run yet.
	op = math.Max(0, math.Min(1, op))

	return LayerState{
		ID:          l.ID,
		Name:        l.Name,
		StableID:    l.StableID,
		Z:           l.Z,
		Group:       l.Group,
		Visible:     l.Visibility.Visible(frame),
		Position:    pos,
		Scale:       scale,
		RotationDeg: rot,
		Opacity:     op,
		Layer:       l,
	}, nil
}
