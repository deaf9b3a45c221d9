/*
NAME
  params.go

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
	"sort"
	"strconv"
	"strings"

	"github.com/vcrfx/vcr/value"
	"github.com/vcrfx/vcr/vcrerr"
)

// parseParamDefs builds the parameter definition table from the "params"
// section of the raw document (step 2 of §4.4). Param names must be
// globally unique (guaranteed: they're map keys) and must not be "t".
func parseParamDefs(raw interface{}) ([]ParamDef, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, vcrerr.New(vcrerr.Validation, "params", "params section must be a mapping")
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]ParamDef, 0, len(m))
	for _, name := range names {
		if name == "t" {
			return nil, vcrerr.New(vcrerr.Validation, "params."+name, "parameter cannot be named \"t\"")
		}
		def, err := parseOneParamDef(name, m[name])
		if err != nil {
			return nil, vcrerr.Wrap(vcrerr.Validation, "params."+name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseOneParamDef(name string, raw interface{}) (ParamDef, error) {
	// Full-form mapping: {type, default, min?, max?, description?}.
	if m, ok := asMap(raw); ok {
		if _, isColorOrVec := m["type"]; !isColorOrVec {
			// Could still be a bare {r,g,b,a} or {x,y} shorthand value with no
			// "type" key; fall through to shorthand handling below.
		} else {
			typeStr, _ := m["type"].(string)
			kind, err := value.ParseKind(typeStr)
			if err != nil {
				return ParamDef{}, err
			}
			defRaw, hasDefault := m["default"]
			if !hasDefault {
				return ParamDef{}, fmt.Errorf("missing default value")
			}
			if isParamReference(defRaw) {
				return ParamDef{}, fmt.Errorf("default value cannot reference another parameter")
			}
			def, err := decodeTypedValue(kind, defRaw)
			if err != nil {
				return ParamDef{}, fmt.Errorf("default: %w", err)
			}
			pd := ParamDef{Name: name, Kind: kind, Default: def}
			if minRaw, ok := m["min"]; ok {
				if kind != value.KindFloat && kind != value.KindInt {
					return ParamDef{}, fmt.Errorf("min/max bounds only valid for scalar types")
				}
				minV, err := toFloat(minRaw)
				if err != nil {
					return ParamDef{}, fmt.Errorf("min: %w", err)
				}
				pd.HasMin, pd.Min = true, minV
			}
			if maxRaw, ok := m["max"]; ok {
				if kind != value.KindFloat && kind != value.KindInt {
					return ParamDef{}, fmt.Errorf("min/max bounds only valid for scalar types")
				}
				maxV, err := toFloat(maxRaw)
				if err != nil {
					return ParamDef{}, fmt.Errorf("max: %w", err)
				}
				pd.HasMax, pd.Max = true, maxV
			}
			if pd.HasMin && pd.HasMax && pd.Min > pd.Max {
				return ParamDef{}, fmt.Errorf("min (%g) exceeds max (%g)", pd.Min, pd.Max)
			}
			if desc, ok := m["description"].(string); ok {
				pd.Description = desc
			}
			if err := checkBounds(pd, pd.Default); err != nil {
				return ParamDef{}, err
			}
			return pd, nil
		}
	}

	// Shorthand: bare literal, type inferred.
	kind, err := inferKind(raw)
	if err != nil {
		return ParamDef{}, err
	}
	def, err := decodeTypedValue(kind, raw)
	if err != nil {
		return ParamDef{}, err
	}
	return ParamDef{Name: name, Kind: kind, Default: def}, nil
}

// isParamReference reports whether a raw default value is itself a
// "${name}" token, which is rejected (§4.4 step 3 implies params resolve
// before substitution; a default cannot forward-reference another param).
func isParamReference(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") && !strings.HasPrefix(s, "$${")
}

// checkBounds verifies v respects pd's declared min/max, if any.
func checkBounds(pd ParamDef, v value.Value) error {
	if !pd.HasMin && !pd.HasMax {
		return nil
	}
	if pd.Kind != value.KindFloat && pd.Kind != value.KindInt {
		return nil
	}
	if pd.HasMin && v.Float < pd.Min {
		return fmt.Errorf("value %g is below minimum %g", v.Float, pd.Min)
	}
	if pd.HasMax && v.Float > pd.Max {
		return fmt.Errorf("value %g exceeds maximum %g", v.Float, pd.Max)
	}
	return nil
}

// resolveParams builds the initial resolved-parameter map from defaults,
// prior to CLI overrides.
func resolveParams(defs []ParamDef) map[string]value.Value {
	out := make(map[string]value.Value, len(defs))
	for _, d := range defs {
		out[d.Name] = d.Default
	}
	return out
}

// ParseOverride parses a single "name=value" CLI override string.
func ParseOverride(s string) (name, raw string, err error) {
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return "", "", vcrerr.New(vcrerr.Usage, s, "malformed override, expected name=value")
	}
	return s[:i], s[i+1:], nil
}

// applyOverrides parses and applies CLI "--set name=value" overrides
// against the parameter definition table, re-checking bounds (§4.4 step
// 3). It returns the updated resolved-parameter map and the
// applied-override map (typed), or a usage/validation error naming the
// offending override.
func applyOverrides(defs []ParamDef, resolved map[string]value.Value, overrides []string) (map[string]value.Value, map[string]value.Value, error) {
	byName := make(map[string]ParamDef, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}

	applied := make(map[string]value.Value)
	for _, o := range overrides {
		name, raw, err := ParseOverride(o)
		if err != nil {
			return nil, nil, err
		}
		def, ok := byName[name]
		if !ok {
			return nil, nil, vcrerr.New(vcrerr.Usage, name, "unknown parameter")
		}
		v, err := parseOverrideValue(def.Kind, raw)
		if err != nil {
			return nil, nil, vcrerr.Wrap(vcrerr.Usage, name, err)
		}
		if err := checkBounds(def, v); err != nil {
			return nil, nil, vcrerr.Wrap(vcrerr.Validation, name, err)
		}
		resolved[name] = v
		applied[name] = v
	}
	return resolved, applied, nil
}

// parseOverrideValue parses a command-line string into a typed Value for
// the given Kind.
func parseOverrideValue(k value.Kind, raw string) (value.Value, error) {
	switch k {
	case value.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected a float, got %q", raw)
		}
		return value.Value{Kind: value.KindFloat, Float: f}, nil
	case value.KindInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected an int, got %q", raw)
		}
		return value.Value{Kind: value.KindInt, Float: float64(i)}, nil
	case value.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected a bool, got %q", raw)
		}
		return value.Value{Kind: value.KindBool, Bool: b}, nil
	case value.KindVec2:
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return value.Value{}, fmt.Errorf("expected \"x,y\", got %q", raw)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected \"x,y\", got %q", raw)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected \"x,y\", got %q", raw)
		}
		return value.Value{Kind: value.KindVec2, Vec2: value.Vec2{X: x, Y: y}}, nil
	case value.KindColor:
		parts := strings.Split(raw, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return value.Value{}, fmt.Errorf("expected \"r,g,b[,a]\", got %q", raw)
		}
		nums := make([]float64, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("expected \"r,g,b[,a]\", got %q", raw)
			}
			nums[i] = f
		}
		c := value.Color{R: nums[0], G: nums[1], B: nums[2], A: 1}
		if len(nums) == 4 {
			c.A = nums[3]
		}
		return value.Value{Kind: value.KindColor, Color: c}, nil
	default:
		return value.Value{}, fmt.Errorf("unknown parameter kind")
	}
}
