/*
NAME
  substitute.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"regexp"

	"github.com/vcrfx/vcr/value"
	"github.com/vcrfx/vcr/vcrerr"
)

var (
	reEscapedToken = regexp.MustCompile(`^\$\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)
	reToken        = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)
)

// substituteDoc performs a recursive walk of the document tree,
// substituting whole-string "${name}" tokens with the resolved value of
// that parameter (§4.4 step 4, §9: substitution depth is exactly one,
// there is no recursive macro-like expansion since parameter values
// themselves are never re-walked).
func substituteDoc(node interface{}, resolved map[string]value.Value) (interface{}, error) {
	switch n := node.(type) {
	case string:
		return substituteString(n, resolved)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(n))
		for k, v := range n {
			sv, err := substituteDoc(v, resolved)
			if err != nil {
				return nil, err
			}
			out[k] = sv
		}
		return out, nil
	case map[interface{}]interface{}:
		m, _ := asMap(n)
		return substituteDoc(m, resolved)
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, v := range n {
			sv, err := substituteDoc(v, resolved)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	default:
		return node, nil
	}
}

func substituteString(s string, resolved map[string]value.Value) (interface{}, error) {
	if m := reEscapedToken.FindStringSubmatch(s); m != nil {
		return "${" + m[1] + "}", nil
	}
	if m := reToken.FindStringSubmatch(s); m != nil {
		name := m[1]
		v, ok := resolved[name]
		if !ok {
			return nil, vcrerr.New(vcrerr.Validation, name, "unknown parameter reference")
		}
		return nativeValue(v), nil
	}
	if containsToken(s) {
		return nil, vcrerr.New(vcrerr.Validation, s, "partial parameter interpolation is not allowed; use a whole-string ${name} token")
	}
	return s, nil
}

// containsToken reports whether s contains a "${" anywhere, used to
// detect (and reject) partial interpolation attempts.
func containsToken(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '$' && s[i+1] == '{' {
			return true
		}
	}
	return false
}

// nativeValue converts a typed parameter Value back into the native Go
// shape the downstream decoder expects (a bare scalar, or a {x,y}/
// {r,g,b,a} mapping), so substitution is indistinguishable from the
// author having written the literal value inline.
func nativeValue(v value.Value) interface{} {
	switch v.Kind {
	case value.KindFloat:
		return v.Float
	case value.KindInt:
		return v.Float
	case value.KindBool:
		return v.Bool
	case value.KindVec2:
		return map[string]interface{}{"x": v.Vec2.X, "y": v.Vec2.Y}
	case value.KindColor:
		return map[string]interface{}{"r": v.Color.R, "g": v.Color.G, "b": v.Color.B, "a": v.Color.A}
	default:
		return nil
	}
}

// numericView projects the resolved parameter map down to plain float64s
// for expression-adjacent consumers (§4.4 step 5: "numeric-scalar view of
// parameters... injected back under the params key").
func numericView(resolved map[string]value.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(resolved))
	for k, v := range resolved {
		switch v.Kind {
		case value.KindFloat, value.KindInt:
			out[k] = v.Float
		case value.KindBool:
			if v.Bool {
				out[k] = 1.0
			} else {
				out[k] = 0.0
			}
		default:
			// Vec2/color have no single numeric-scalar view; omitted.
		}
	}
	return out
}
