/*
NAME
  hash.go

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
	"hash/fnv"
	"sort"
	"strings"

	"github.com/vcrfx/vcr/value"
)

// canonicalHash computes the FNV-1a 64 hash over a canonical
// serialization of (manifestText, resolvedParams, overrides): sorted
// parameter keys and fixed-precision float formatting, so the same
// manifest and override set always produce the same hash regardless of
// map iteration order or float formatting quirks (§4.4 step 9, §8
// testable property 3).
func canonicalHash(manifestText string, resolvedParams, overrides map[string]value.Value) uint64 {
	var b strings.Builder
	b.WriteString(manifestText)
	b.WriteByte(0)
	writeCanonicalParams(&b, resolvedParams)
	b.WriteByte(0)
	writeCanonicalParams(&b, overrides)

	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return h.Sum64()
}

func writeCanonicalParams(b *strings.Builder, m map[string]value.Value) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(canonicalValue(m[name]))
		b.WriteByte(';')
	}
}

// canonicalValue serializes a Value with fixed float formatting ("%.17g",
// always 17 significant digits), independent of the platform's default
// float-to-string rules.
func canonicalValue(v value.Value) string {
	switch v.Kind {
	case value.KindFloat:
		return fmt.Sprintf("f%s", formatFloat(v.Float))
	case value.KindInt:
		return fmt.Sprintf("i%d", int64(v.Float))
	case value.KindBool:
		if v.Bool {
			return "b1"
		}
		return "b0"
	case value.KindVec2:
		return fmt.Sprintf("v%s,%s", formatFloat(v.Vec2.X), formatFloat(v.Vec2.Y))
	case value.KindColor:
		return fmt.Sprintf("c%s,%s,%s,%s", formatFloat(v.Color.R), formatFloat(v.Color.G), formatFloat(v.Color.B), formatFloat(v.Color.A))
	default:
		return "?"
	}
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.17g", f)
}

// ArtifactHash composes the resolved-manifest hash with the render
// window (start frame, frame count, end frame) to identify one specific
// rendered artifact, distinct from the manifest-identity hash alone
// (§8 testable property 3).
func ArtifactHash(resolvedHash uint64, resolvedParams, overrides map[string]value.Value, startFrame, frameCount int) uint64 {
	var b strings.Builder
	fmt.Fprintf(&b, "%d;", resolvedHash)
	writeCanonicalParams(&b, resolvedParams)
	b.WriteByte(';')
	writeCanonicalParams(&b, overrides)
	fmt.Fprintf(&b, ";%d;%d;%d", startFrame, frameCount, startFrame+frameCount)

	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return h.Sum64()
}
