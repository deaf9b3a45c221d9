/*
NAME
  decode.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"fmt"
	"math"

	"github.com/vcrfx/vcr/expr"
	"github.com/vcrfx/vcr/modulator"
	"github.com/vcrfx/vcr/property"
	"github.com/vcrfx/vcr/value"
	"github.com/vcrfx/vcr/vcrerr"
)

var topLevelKeys = map[string]bool{
	"version": true, "environment": true, "seed": true, "params": true,
	"modulators": true, "groups": true, "layers": true,
}

// decodeTop decodes the fully substituted raw document into an
// Environment, the modulator table, group set, and layer list (§4.4
// steps 6-8, §6's manifest document grammar).
func decodeTop(doc map[string]interface{}) (Environment, int64, map[string]modulator.Modulator, map[string]bool, []Layer, error) {
	for k := range doc {
		if !topLevelKeys[k] {
			return Environment{}, 0, nil, nil, nil, vcrerr.New(vcrerr.Validation, k, "unknown top-level key")
		}
	}

	envRaw, ok := doc["environment"]
	if !ok {
		return Environment{}, 0, nil, nil, nil, vcrerr.New(vcrerr.Validation, "environment", "missing required section")
	}
	env, err := decodeEnvironment(envRaw)
	if err != nil {
		return Environment{}, 0, nil, nil, nil, vcrerr.Wrap(vcrerr.Validation, "environment", err)
	}

	var seed int64
	if s, ok := doc["seed"]; ok {
		f, err := toFloat(s)
		if err != nil {
			return Environment{}, 0, nil, nil, nil, vcrerr.Wrap(vcrerr.Validation, "seed", err)
		}
		seed = int64(f)
	}

	mods, err := decodeModulators(doc["modulators"])
	if err != nil {
		return Environment{}, 0, nil, nil, nil, vcrerr.Wrap(vcrerr.Validation, "modulators", err)
	}

	groups, err := decodeGroups(doc["groups"])
	if err != nil {
		return Environment{}, 0, nil, nil, nil, vcrerr.Wrap(vcrerr.Validation, "groups", err)
	}

	layersRaw, ok := doc["layers"]
	if !ok {
		return Environment{}, 0, nil, nil, nil, vcrerr.New(vcrerr.Validation, "layers", "manifest must declare at least one layer")
	}
	layerSlice, ok := asSlice(layersRaw)
	if !ok {
		return Environment{}, 0, nil, nil, nil, vcrerr.New(vcrerr.Validation, "layers", "layers must be a list")
	}
	layers := make([]Layer, 0, len(layerSlice))
	for i, lr := range layerSlice {
		l, err := decodeLayer(lr, i)
		if err != nil {
			return Environment{}, 0, nil, nil, nil, vcrerr.Wrap(vcrerr.Validation, fmt.Sprintf("layers[%d]", i), err)
		}
		layers = append(layers, l)
	}

	return env, seed, mods, groups, layers, nil
}

func decodeEnvironment(raw interface{}) (Environment, error) {
	m, ok := asMap(raw)
	if !ok {
		return Environment{}, fmt.Errorf("must be a mapping")
	}
	resRaw, ok := m["resolution"]
	if !ok {
		return Environment{}, fmt.Errorf("missing resolution")
	}
	res, ok := asMap(resRaw)
	if !ok {
		return Environment{}, fmt.Errorf("resolution must be a mapping")
	}
	w, err := toInt(res["width"])
	if err != nil {
		return Environment{}, fmt.Errorf("resolution.width: %w", err)
	}
	h, err := toInt(res["height"])
	if err != nil {
		return Environment{}, fmt.Errorf("resolution.height: %w", err)
	}

	fps, err := toInt(m["fps"])
	if err != nil {
		return Environment{}, fmt.Errorf("fps: %w", err)
	}

	durRaw, ok := m["duration"]
	if !ok {
		return Environment{}, fmt.Errorf("missing duration")
	}
	frames, err := decodeDuration(durRaw, fps)
	if err != nil {
		return Environment{}, fmt.Errorf("duration: %w", err)
	}

	cs := Rec709
	if csRaw, ok := m["color_space"]; ok {
		s, _ := csRaw.(string)
		switch s {
		case "", "rec709", "Rec.709":
			cs = Rec709
		case "rec2020", "Rec.2020":
			cs = Rec2020
		case "displayp3", "DisplayP3", "Display P3":
			cs = DisplayP3
		default:
			return Environment{}, fmt.Errorf("unknown color_space %q", s)
		}
	}

	return Environment{Width: w, Height: h, FPS: fps, FrameCount: frames, ColorSpace: cs}, nil
}

// decodeDuration resolves "duration" as seconds (ceiled to at least one
// frame) or an explicit frame count.
func decodeDuration(raw interface{}, fps int) (int, error) {
	if m, ok := asMap(raw); ok {
		if fr, ok := m["frames"]; ok {
			n, err := toInt(fr)
			if err != nil {
				return 0, fmt.Errorf("frames: %w", err)
			}
			return n, nil
		}
		return 0, fmt.Errorf("mapping form must set \"frames\"")
	}
	secs, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("must be seconds or {frames}")
	}
	n := int(math.Ceil(secs * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n, nil
}

func decodeModulators(raw interface{}) (map[string]modulator.Modulator, error) {
	out := make(map[string]modulator.Modulator)
	if raw == nil {
		return out, nil
	}
	list, ok := asSlice(raw)
	if !ok {
		return nil, fmt.Errorf("must be a list")
	}
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("modulators[%d]: must be a mapping", i)
		}
		name, _ := m["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("modulators[%d]: missing name", i)
		}
		kindStr, _ := m["kind"].(string)
		kind, ok := modulator.ParseKind(kindStr)
		if !ok {
			return nil, fmt.Errorf("modulators[%d]: unknown kind %q", i, kindStr)
		}
		mod := modulator.Modulator{Name: name, Kind: kind, Amplitude: 1, Frequency: 1}
		if v, ok := m["frequency"]; ok {
			mod.Frequency, _ = toFloat(v)
		}
		if v, ok := m["phase"]; ok {
			mod.Phase, _ = toFloat(v)
		}
		if v, ok := m["amplitude"]; ok {
			mod.Amplitude, _ = toFloat(v)
		}
		if v, ok := m["offset"]; ok {
			mod.Offset, _ = toFloat(v)
		}
		if v, ok := m["seed"]; ok {
			f, _ := toFloat(v)
			mod.Seed = int64(f)
		}
		if _, exists := out[name]; exists {
			return nil, fmt.Errorf("duplicate modulator name %q", name)
		}
		out[name] = mod
	}
	return out, nil
}

func decodeGroups(raw interface{}) (map[string]bool, error) {
	out := make(map[string]bool)
	if raw == nil {
		return out, nil
	}
	list, ok := asSlice(raw)
	if !ok {
		return nil, fmt.Errorf("must be a list")
	}
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("groups[%d]: must be a mapping", i)
		}
		id, _ := m["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("groups[%d]: missing id", i)
		}
		out[id] = true
	}
	return out, nil
}

// decodeScalarProperty decodes a scalar property: static, keyframe, or
// (scalars only) an expression string over t.
func decodeScalarProperty(raw interface{}, def float64) (property.Scalar, error) {
	if raw == nil {
		return property.ConstantScalar(def), nil
	}
	if s, ok := raw.(string); ok {
		ast, err := expr.Parse(s)
		if err != nil {
			return property.Scalar{}, fmt.Errorf("expression: %w", err)
		}
		return property.Scalar{Kind: property.Expression, Expr: ast}, nil
	}
	if m, ok := asMap(raw); ok {
		if _, isKeyframe := m["start_frame"]; isKeyframe {
			return decodeKeyframeScalar(m)
		}
		return property.Scalar{}, fmt.Errorf("expected scalar, keyframe, or expression")
	}
	f, err := toFloat(raw)
	if err != nil {
		return property.Scalar{}, err
	}
	return property.ConstantScalar(f), nil
}

func decodeKeyframeScalar(m map[string]interface{}) (property.Scalar, error) {
	start, err := toInt(m["start_frame"])
	if err != nil {
		return property.Scalar{}, fmt.Errorf("start_frame: %w", err)
	}
	end, err := toInt(m["end_frame"])
	if err != nil {
		return property.Scalar{}, fmt.Errorf("end_frame: %w", err)
	}
	if end <= start {
		return property.Scalar{}, fmt.Errorf("end_frame (%d) must be greater than start_frame (%d)", end, start)
	}
	from, err := toFloat(m["from"])
	if err != nil {
		return property.Scalar{}, fmt.Errorf("from: %w", err)
	}
	to, err := toFloat(m["to"])
	if err != nil {
		return property.Scalar{}, fmt.Errorf("to: %w", err)
	}
	easing, err := decodeEasing(m["easing"])
	if err != nil {
		return property.Scalar{}, err
	}
	return property.Scalar{
		Kind: property.Keyframe,
		Keyframe: property.KeyframeScalar{
			StartFrame: start, EndFrame: end, From: from, To: to, Easing: easing,
		},
	}, nil
}

func decodeEasing(raw interface{}) (value.Easing, error) {
	s, _ := raw.(string)
	return value.ParseEasing(s)
}

// decodeVec2Property decodes a 2-vector property: static or keyframe
// (expressions are scalars only, §3).
func decodeVec2Property(raw interface{}, def value.Vec2) (property.Vec2, error) {
	if raw == nil {
		return property.ConstantVec2(def), nil
	}
	m, ok := asMap(raw)
	if !ok {
		return property.Vec2{}, fmt.Errorf("expected {x,y} or keyframe mapping")
	}
	if _, isKeyframe := m["start_frame"]; isKeyframe {
		start, err := toInt(m["start_frame"])
		if err != nil {
			return property.Vec2{}, fmt.Errorf("start_frame: %w", err)
		}
		end, err := toInt(m["end_frame"])
		if err != nil {
			return property.Vec2{}, fmt.Errorf("end_frame: %w", err)
		}
		if end <= start {
			return property.Vec2{}, fmt.Errorf("end_frame (%d) must be greater than start_frame (%d)", end, start)
		}
		from, err := toVec2(m["from"])
		if err != nil {
			return property.Vec2{}, fmt.Errorf("from: %w", err)
		}
		to, err := toVec2(m["to"])
		if err != nil {
			return property.Vec2{}, fmt.Errorf("to: %w", err)
		}
		easing, err := decodeEasing(m["easing"])
		if err != nil {
			return property.Vec2{}, err
		}
		return property.Vec2{
			Kind: property.Keyframe,
			Keyframe: property.KeyframeVec2{
				StartFrame: start, EndFrame: end, From: from, To: to, Easing: easing,
			},
		}, nil
	}
	v, err := toVec2(m)
	if err != nil {
		return property.Vec2{}, err
	}
	return property.ConstantVec2(v), nil
}
