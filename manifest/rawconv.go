/*
NAME
  rawconv.go

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
	"strconv"

	"github.com/vcrfx/vcr/value"
)

// asMap coerces a YAML-decoded node into a string-keyed map, accepting
// both map[string]interface{} (from manual construction) and
// map[interface{}]interface{} (a possible yaml.v2-style decode shape)
// defensively.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("expected numeric value, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", v)
	}
}

func toInt(v interface{}) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func toBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean value, got %T", v)
	}
	return b, nil
}

func toVec2(v interface{}) (value.Vec2, error) {
	m, ok := asMap(v)
	if !ok {
		return value.Vec2{}, fmt.Errorf("expected {x,y} mapping, got %T", v)
	}
	x, err := toFloat(m["x"])
	if err != nil {
		return value.Vec2{}, fmt.Errorf("vec2.x: %w", err)
	}
	y, err := toFloat(m["y"])
	if err != nil {
		return value.Vec2{}, fmt.Errorf("vec2.y: %w", err)
	}
	return value.Vec2{X: x, Y: y}, nil
}

func toColor(v interface{}) (value.Color, error) {
	m, ok := asMap(v)
	if !ok {
		return value.Color{}, fmt.Errorf("expected {r,g,b,a} mapping, got %T", v)
	}
	r, err := toFloat(m["r"])
	if err != nil {
		return value.Color{}, fmt.Errorf("color.r: %w", err)
	}
	g, err := toFloat(m["g"])
	if err != nil {
		return value.Color{}, fmt.Errorf("color.g: %w", err)
	}
	b, err := toFloat(m["b"])
	if err != nil {
		return value.Color{}, fmt.Errorf("color.b: %w", err)
	}
	a := 1.0
	if av, ok := m["a"]; ok {
		a, err = toFloat(av)
		if err != nil {
			return value.Color{}, fmt.Errorf("color.a: %w", err)
		}
	}
	return value.Color{R: r, G: g, B: b, A: a}, nil
}

// inferKind infers a Kind from a raw shorthand literal (no explicit
// "type:" given).
func inferKind(v interface{}) (value.Kind, error) {
	switch n := v.(type) {
	case bool:
		return value.KindBool, nil
	case int, int64:
		return value.KindInt, nil
	case float64:
		return value.KindFloat, nil
	case string:
		return value.KindFloat, fmt.Errorf("cannot infer type of bare string parameter %q; declare an explicit type", n)
	case map[string]interface{}, map[interface{}]interface{}:
		m, _ := asMap(v)
		if _, ok := m["r"]; ok {
			return value.KindColor, nil
		}
		if _, ok := m["x"]; ok {
			return value.KindVec2, nil
		}
		return value.KindFloat, fmt.Errorf("cannot infer type of mapping value")
	default:
		return value.KindFloat, fmt.Errorf("cannot infer type of %T", v)
	}
}

// decodeTypedValue decodes a raw YAML node into a Value of the given Kind.
func decodeTypedValue(k value.Kind, v interface{}) (value.Value, error) {
	switch k {
	case value.KindFloat:
		f, err := toFloat(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindFloat, Float: f}, nil
	case value.KindInt:
		i, err := toInt(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindInt, Float: float64(i)}, nil
	case value.KindBool:
		b, err := toBool(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindBool, Bool: b}, nil
	case value.KindVec2:
		vec, err := toVec2(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindVec2, Vec2: vec}, nil
	case value.KindColor:
		c, err := toColor(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindColor, Color: c}, nil
	default:
		return value.Value{}, fmt.Errorf("unknown kind %v", k)
	}
}
