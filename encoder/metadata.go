/*
NAME
  metadata.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encoder writes raw RGBA frames to an external encoder process
// and emits the metadata sidecar describing the resulting artifact
// (§4.9).
package encoder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vcrfx/vcr/value"
)

// Metadata is the sidecar document written alongside every artifact.
// Field order matches §4.9 exactly; encoding/json preserves declared
// struct field order, which is what "stable key ordering" means here.
type Metadata struct {
	ManifestHash         string                 `json:"manifest_hash"`
	ResolvedManifestHash string                 `json:"resolved_manifest_hash"`
	ToolVersion          string                 `json:"tool_version"`
	BackendName          string                 `json:"backend_name"`
	BackendReason        string                 `json:"backend_reason"`
	Resolution           Resolution             `json:"resolution"`
	FPS                  int                    `json:"fps"`
	FrameCount           int                    `json:"frame_count"`
	StartFrame           int                    `json:"start_frame"`
	EndFrame             int                    `json:"end_frame"`
	ResolvedParams       map[string]interface{} `json:"resolved_params"`
	Overrides            map[string]interface{} `json:"overrides"`
}

// Resolution is the sidecar's {width, height} pair.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ValuesToJSON converts a value.Value map into a plain JSON-marshalable
// map, since value.Value itself is a tagged union, not a JSON type.
func ValuesToJSON(m map[string]value.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = jsonValue(v)
	}
	return out
}

func jsonValue(v value.Value) interface{} {
	switch v.Kind {
	case value.KindFloat:
		return v.Float
	case value.KindInt:
		return v.Int()
	case value.KindBool:
		return v.Bool
	case value.KindVec2:
		return map[string]float64{"x": v.Vec2.X, "y": v.Vec2.Y}
	case value.KindColor:
		return map[string]float64{"r": v.Color.R, "g": v.Color.G, "b": v.Color.B, "a": v.Color.A}
	default:
		return nil
	}
}

// WriteMetadata writes the sidecar JSON to path: pretty-printed,
// stable-key-ordered (via the struct field order above), and
// newline-terminated.
func WriteMetadata(path string, m Metadata) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing metadata sidecar %s: %w", path, err)
	}
	return nil
}
