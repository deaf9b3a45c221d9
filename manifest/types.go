/*
NAME
  types.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package manifest implements the scene-document pipeline: parsing,
// parameter substitution, CLI-override application, validation, typed
// decoding and canonical hashing. The output is a Resolved manifest
// consumed read-only by the scene evaluator, one per run.
package manifest

import (
	"github.com/vcrfx/vcr/modulator"
	"github.com/vcrfx/vcr/property"
	"github.com/vcrfx/vcr/value"
)

// ColorSpace names the output working-space tag (§3).
type ColorSpace int

const (
	Rec709 ColorSpace = iota
	Rec2020
	DisplayP3
)

func (c ColorSpace) String() string {
	switch c {
	case Rec2020:
		return "rec2020"
	case DisplayP3:
		return "displayp3"
	default:
		return "rec709"
	}
}

// Environment holds the canvas, frame-rate and duration of a manifest.
type Environment struct {
	Width, Height int
	FPS           int
	FrameCount    int // derived once; immutable for the run.
	ColorSpace    ColorSpace
}

// ParamDef is a parameter definition: a name, type, default, optional
// bounds and description.
type ParamDef struct {
	Name        string
	Kind        value.Kind
	Default     value.Value
	HasMin      bool
	Min         float64
	HasMax      bool
	Max         float64
	Description string
}

// LayerKind tags which variant payload a Layer carries.
type LayerKind int

const (
	LayerProcedural LayerKind = iota
	LayerImage
	LayerSequence
	LayerShader
	LayerASCII
	LayerText
	LayerAsset
)

func (k LayerKind) String() string {
	switch k {
	case LayerProcedural:
		return "procedural"
	case LayerImage:
		return "image"
	case LayerSequence:
		return "sequence"
	case LayerShader:
		return "shader"
	case LayerASCII:
		return "ascii"
	case LayerText:
		return "text"
	case LayerAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// GradientDirection names a linear-gradient direction.
type GradientDirection int

const (
	Horizontal GradientDirection = iota
	Vertical
)

// ProceduralPayload is a solid color or a linear gradient between two
// colors.
type ProceduralPayload struct {
	Gradient  bool
	Color     value.Color // solid
	ColorA    value.Color // gradient start
	ColorB    value.Color // gradient end
	Direction GradientDirection
}

// SampleMode names an image/sequence filtering mode.
type SampleMode int

const (
	SampleBilinear SampleMode = iota
	SampleNearest
)

// ImagePayload references a resolved PNG/JPEG/WebP file.
type ImagePayload struct {
	Path       string // resolved, relative to manifest directory.
	SampleMode SampleMode
}

// LoopMode names what happens to a sequence layer past its last frame.
type LoopMode int

const (
	LoopClamp LoopMode = iota
	LoopWrap
)

// SequencePayload references a directory of numbered frame images.
type SequencePayload struct {
	Dir         string
	FirstIndex  int
	SourceFPS   int
	Offset      int
	Loop        LoopMode
	SampleMode  SampleMode
}

// ShaderPayload references an embedded or file-based fragment program.
type ShaderPayload struct {
	Name     string // embedded shader name, e.g. "plasma", "vignette".
	Path     string // alternative: file path to a fragment program.
	Uniforms map[string]value.Value
}

// ASCIIPayload is an inline-text or sequence ASCII layer.
type ASCIIPayload struct {
	Text        string // inline text block.
	SequenceDir string // alternative: path to a text-frame sequence.
	Font        string
	CellWidth   int
	CellHeight  int
	Foreground  value.Color
	Background  value.Color
}

// TextPayload is a literal string rendered via the bundled pixel font.
type TextPayload struct {
	Text  string
	Font  string
	Size  float64
	Color value.Color
}

// AssetPayload references an opaque blob in the external media library.
type AssetPayload struct {
	ID          string
	Type        string
	ContentHash string
}

// VisibilitySchedule is an optional predicate restricting a layer's
// visible frame ranges; empty Ranges means always visible.
type VisibilitySchedule struct {
	Ranges [][2]int // inclusive [start,end] frame ranges.
}

// Visible reports whether frame falls within any scheduled range.
func (s VisibilitySchedule) Visible(frame int) bool {
	if len(s.Ranges) == 0 {
		return true
	}
	for _, r := range s.Ranges {
		if frame >= r[0] && frame <= r[1] {
			return true
		}
	}
	return false
}

// ModulatorBinding attaches a named modulator to one of a layer's
// properties with a weight.
type ModulatorBinding struct {
	Property string // "position.x", "position.y", "scale.x", "rotation", "opacity", etc.
	Name     string // modulator name, looked up in Resolved.Modulators.
	Weight   float64
}

// Layer is the common-fields-plus-variant-payload layer model (§3, §9):
// modeled as a tagged sum over the seven variants, dispatched by Kind.
type Layer struct {
	ID        string
	Name      string
	StableID  string
	Z         int
	Group     string
	declOrder int // tie-break for stable z-sort.

	Position property.Vec2
	Scale    property.Vec2
	Rotation property.Scalar
	Opacity  property.Scalar

	Visibility VisibilitySchedule
	Modulators []ModulatorBinding

	Kind       LayerKind
	Procedural ProceduralPayload
	Image      ImagePayload
	Sequence   SequencePayload
	Shader     ShaderPayload
	ASCII      ASCIIPayload
	Text       TextPayload
	Asset      AssetPayload
}

// Resolved is the post-substitution, post-override, fully typed and
// validated scene document, ready for per-frame evaluation.
type Resolved struct {
	Environment Environment
	Seed        int64
	Params      map[string]value.Value // resolved parameter map, including overrides.
	Overrides   map[string]value.Value // the applied-override map only.
	ParamDefs   []ParamDef
	Modulators  map[string]modulator.Modulator
	Layers      []Layer // sorted by ascending z, ties by declaration order.
	Hash        uint64  // canonical hash over (manifest_text, resolved_params, overrides).

	Dir string // manifest directory, used for path-safety checks elsewhere.
}
