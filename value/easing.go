/*
NAME
  easing.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package value

import "fmt"

// Easing names a keyframe interpolation curve.
type Easing int

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

func (e Easing) String() string {
	switch e {
	case EaseLinear:
		return "linear"
	case EaseIn:
		return "ease_in"
	case EaseOut:
		return "ease_out"
	case EaseInOut:
		return "ease_in_out"
	default:
		return "unknown"
	}
}

// ParseEasing parses a manifest easing name.
func ParseEasing(s string) (Easing, error) {
	switch s {
	case "", "linear":
		return EaseLinear, nil
	case "ease_in":
		return EaseIn, nil
	case "ease_out":
		return EaseOut, nil
	case "ease_in_out":
		return EaseInOut, nil
	default:
		return EaseLinear, fmt.Errorf("unknown easing %q", s)
	}
}

// Apply maps progress p in [0,1] through the easing curve, returning a
// value in [0,1]. All curves satisfy Apply(0)==0 and Apply(1)==1.
func (e Easing) Apply(p float64) float64 {
	switch e {
	case EaseIn:
		return p * p
	case EaseOut:
		return 1 - (1-p)*(1-p)
	case EaseInOut:
		if p < 0.5 {
			return 2 * p * p
		}
		d := -2*p + 2
		return 1 - (d*d)/2
	case EaseLinear:
		fallthrough
	default:
		return p
	}
}
