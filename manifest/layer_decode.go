/*
NAME
  layer_decode.go

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

	"github.com/vcrfx/vcr/value"
)

var variantKeys = []string{"procedural", "image", "sequence", "shader", "ascii", "text", "asset"}

// decodeLayer decodes one layer entry: common fields composed with
// exactly one tagged variant payload (§3, §9's "polymorphic layer list"
// guidance: a tagged sum, not inheritance).
func decodeLayer(raw interface{}, declOrder int) (Layer, error) {
	m, ok := asMap(raw)
	if !ok {
		return Layer{}, fmt.Errorf("layer must be a mapping")
	}

	id, _ := m["id"].(string)
	if id == "" {
		return Layer{}, fmt.Errorf("missing id")
	}
	l := Layer{ID: id, declOrder: declOrder}
	l.Name, _ = m["name"].(string)
	l.StableID, _ = m["stable_id"].(string)
	l.Group, _ = m["group"].(string)

	if zRaw, ok := m["z"]; ok {
		z, err := toInt(zRaw)
		if err != nil {
			return Layer{}, fmt.Errorf("z: %w", err)
		}
		l.Z = z
	}

	var err error
	l.Position, err = decodeVec2Property(m["position"], value.Vec2{})
	if err != nil {
		return Layer{}, fmt.Errorf("position: %w", err)
	}
	l.Scale, err = decodeVec2Property(m["scale"], value.Vec2{X: 1, Y: 1})
	if err != nil {
		return Layer{}, fmt.Errorf("scale: %w", err)
	}
	l.Rotation, err = decodeScalarProperty(m["rotation"], 0)
	if err != nil {
		return Layer{}, fmt.Errorf("rotation: %w", err)
	}
	l.Opacity, err = decodeScalarProperty(m["opacity"], 1)
	if err != nil {
		return Layer{}, fmt.Errorf("opacity: %w", err)
	}

	if visRaw, ok := m["visibility"]; ok {
		sched, err := decodeVisibility(visRaw)
		if err != nil {
			return Layer{}, fmt.Errorf("visibility: %w", err)
		}
		l.Visibility = sched
	}

	if bindRaw, ok := m["modulators"]; ok {
		binds, err := decodeModulatorBindings(bindRaw)
		if err != nil {
			return Layer{}, fmt.Errorf("modulators: %w", err)
		}
		l.Modulators = binds
	}

	kind, variantRaw, err := pickVariant(m)
	if err != nil {
		return Layer{}, err
	}
	l.Kind = kind
	switch kind {
	case LayerProcedural:
		l.Procedural, err = decodeProcedural(variantRaw)
	case LayerImage:
		l.Image, err = decodeImage(variantRaw)
	case LayerSequence:
		l.Sequence, err = decodeSequence(variantRaw)
	case LayerShader:
		l.Shader, err = decodeShader(variantRaw)
	case LayerASCII:
		l.ASCII, err = decodeASCII(variantRaw)
	case LayerText:
		l.Text, err = decodeText(variantRaw)
	case LayerAsset:
		l.Asset, err = decodeAsset(variantRaw)
	}
	if err != nil {
		return Layer{}, fmt.Errorf("%s: %w", kind, err)
	}

	return l, nil
}

func pickVariant(m map[string]interface{}) (LayerKind, map[string]interface{}, error) {
	var found []string
	for _, k := range variantKeys {
		if _, ok := m[k]; ok {
			found = append(found, k)
		}
	}
	if len(found) == 0 {
		return 0, nil, fmt.Errorf("layer must declare exactly one variant payload")
	}
	if len(found) > 1 {
		return 0, nil, fmt.Errorf("layer declares multiple variant payloads: %v", found)
	}
	key := found[0]
	variantRaw, ok := asMap(m[key])
	if !ok {
		return 0, nil, fmt.Errorf("%s: must be a mapping", key)
	}
	kindByKey := map[string]LayerKind{
		"procedural": LayerProcedural,
		"image":      LayerImage,
		"sequence":   LayerSequence,
		"shader":     LayerShader,
		"ascii":      LayerASCII,
		"text":       LayerText,
		"asset":      LayerAsset,
	}
	return kindByKey[key], variantRaw, nil
}

func decodeVisibility(raw interface{}) (VisibilitySchedule, error) {
	list, ok := asSlice(raw)
	if !ok {
		return VisibilitySchedule{}, fmt.Errorf("must be a list of {start,end} ranges")
	}
	var sched VisibilitySchedule
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return VisibilitySchedule{}, fmt.Errorf("[%d]: must be a mapping", i)
		}
		start, err := toInt(m["start"])
		if err != nil {
			return VisibilitySchedule{}, fmt.Errorf("[%d].start: %w", i, err)
		}
		end, err := toInt(m["end"])
		if err != nil {
			return VisibilitySchedule{}, fmt.Errorf("[%d].end: %w", i, err)
		}
		if end < start {
			return VisibilitySchedule{}, fmt.Errorf("[%d]: end (%d) before start (%d)", i, end, start)
		}
		sched.Ranges = append(sched.Ranges, [2]int{start, end})
	}
	return sched, nil
}

func decodeModulatorBindings(raw interface{}) ([]ModulatorBinding, error) {
	list, ok := asSlice(raw)
	if !ok {
		return nil, fmt.Errorf("must be a list")
	}
	out := make([]ModulatorBinding, 0, len(list))
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("[%d]: must be a mapping", i)
		}
		b := ModulatorBinding{Weight: 1}
		b.Property, _ = m["property"].(string)
		b.Name, _ = m["name"].(string)
		if b.Property == "" || b.Name == "" {
			return nil, fmt.Errorf("[%d]: must declare property and name", i)
		}
		if w, ok := m["weight"]; ok {
			f, err := toFloat(w)
			if err != nil {
				return nil, fmt.Errorf("[%d].weight: %w", i, err)
			}
			b.Weight = f
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeProcedural(m map[string]interface{}) (ProceduralPayload, error) {
	kind, _ := m["kind"].(string)
	switch kind {
	case "solid_color", "":
		c, err := toColor(m["color"])
		if err != nil {
			return ProceduralPayload{}, fmt.Errorf("color: %w", err)
		}
		return ProceduralPayload{Gradient: false, Color: c}, nil
	case "linear_gradient":
		a, err := toColor(m["color_a"])
		if err != nil {
			return ProceduralPayload{}, fmt.Errorf("color_a: %w", err)
		}
		b, err := toColor(m["color_b"])
		if err != nil {
			return ProceduralPayload{}, fmt.Errorf("color_b: %w", err)
		}
		dirStr, _ := m["direction"].(string)
		var dir GradientDirection
		switch dirStr {
		case "horizontal", "":
			dir = Horizontal
		case "vertical":
			dir = Vertical
		default:
			return ProceduralPayload{}, fmt.Errorf("unknown direction %q", dirStr)
		}
		return ProceduralPayload{Gradient: true, ColorA: a, ColorB: b, Direction: dir}, nil
	default:
		return ProceduralPayload{}, fmt.Errorf("unknown procedural kind %q", kind)
	}
}

func decodeSampleMode(raw interface{}) SampleMode {
	s, _ := raw.(string)
	if s == "nearest" {
		return SampleNearest
	}
	return SampleBilinear
}

func decodeImage(m map[string]interface{}) (ImagePayload, error) {
	path, _ := m["path"].(string)
	if path == "" {
		return ImagePayload{}, fmt.Errorf("missing path")
	}
	return ImagePayload{Path: path, SampleMode: decodeSampleMode(m["sampling"])}, nil
}

func decodeSequence(m map[string]interface{}) (SequencePayload, error) {
	dir, _ := m["dir"].(string)
	if dir == "" {
		return SequencePayload{}, fmt.Errorf("missing dir")
	}
	sp := SequencePayload{Dir: dir, SourceFPS: 24, SampleMode: decodeSampleMode(m["sampling"])}
	if v, ok := m["first_frame"]; ok {
		n, err := toInt(v)
		if err != nil {
			return SequencePayload{}, fmt.Errorf("first_frame: %w", err)
		}
		sp.FirstIndex = n
	}
	if v, ok := m["source_fps"]; ok {
		n, err := toInt(v)
		if err != nil {
			return SequencePayload{}, fmt.Errorf("source_fps: %w", err)
		}
		sp.SourceFPS = n
	}
	if v, ok := m["offset"]; ok {
		n, err := toInt(v)
		if err != nil {
			return SequencePayload{}, fmt.Errorf("offset: %w", err)
		}
		sp.Offset = n
	}
	if v, _ := m["loop"].(string); v == "wrap" {
		sp.Loop = LoopWrap
	}
	return sp, nil
}

func decodeShader(m map[string]interface{}) (ShaderPayload, error) {
	sp := ShaderPayload{}
	sp.Name, _ = m["name"].(string)
	sp.Path, _ = m["path"].(string)
	if sp.Name == "" && sp.Path == "" {
		return ShaderPayload{}, fmt.Errorf("must declare name or path")
	}
	if uRaw, ok := m["uniforms"]; ok {
		um, ok := asMap(uRaw)
		if !ok {
			return ShaderPayload{}, fmt.Errorf("uniforms: must be a mapping")
		}
		sp.Uniforms = make(map[string]value.Value, len(um))
		for k, v := range um {
			kind, err := inferKind(v)
			if err != nil {
				return ShaderPayload{}, fmt.Errorf("uniforms.%s: %w", k, err)
			}
			tv, err := decodeTypedValue(kind, v)
			if err != nil {
				return ShaderPayload{}, fmt.Errorf("uniforms.%s: %w", k, err)
			}
			sp.Uniforms[k] = tv
		}
	}
	return sp, nil
}

func decodeASCII(m map[string]interface{}) (ASCIIPayload, error) {
	ap := ASCIIPayload{CellWidth: 8, CellHeight: 16}
	ap.Text, _ = m["text"].(string)
	ap.SequenceDir, _ = m["sequence_dir"].(string)
	if ap.Text == "" && ap.SequenceDir == "" {
		return ASCIIPayload{}, fmt.Errorf("must declare text or sequence_dir")
	}
	ap.Font, _ = m["font"].(string)
	if v, ok := m["cell_width"]; ok {
		n, err := toInt(v)
		if err != nil {
			return ASCIIPayload{}, fmt.Errorf("cell_width: %w", err)
		}
		ap.CellWidth = n
	}
	if v, ok := m["cell_height"]; ok {
		n, err := toInt(v)
		if err != nil {
			return ASCIIPayload{}, fmt.Errorf("cell_height: %w", err)
		}
		ap.CellHeight = n
	}
	ap.Foreground = value.Color{R: 1, G: 1, B: 1, A: 1}
	if v, ok := m["foreground"]; ok {
		c, err := toColor(v)
		if err != nil {
			return ASCIIPayload{}, fmt.Errorf("foreground: %w", err)
		}
		ap.Foreground = c
	}
	if v, ok := m["background"]; ok {
		c, err := toColor(v)
		if err != nil {
			return ASCIIPayload{}, fmt.Errorf("background: %w", err)
		}
		ap.Background = c
	}
	return ap, nil
}

func decodeText(m map[string]interface{}) (TextPayload, error) {
	tp := TextPayload{Size: 16, Color: value.Color{R: 1, G: 1, B: 1, A: 1}}
	tp.Text, _ = m["text"].(string)
	if tp.Text == "" {
		return TextPayload{}, fmt.Errorf("missing text")
	}
	tp.Font, _ = m["font"].(string)
	if v, ok := m["size"]; ok {
		f, err := toFloat(v)
		if err != nil {
			return TextPayload{}, fmt.Errorf("size: %w", err)
		}
		tp.Size = f
	}
	if v, ok := m["color"]; ok {
		c, err := toColor(v)
		if err != nil {
			return TextPayload{}, fmt.Errorf("color: %w", err)
		}
		tp.Color = c
	}
	return tp, nil
}

func decodeAsset(m map[string]interface{}) (AssetPayload, error) {
	ap := AssetPayload{}
	ap.ID, _ = m["id"].(string)
	ap.Type, _ = m["type"].(string)
	ap.ContentHash, _ = m["content_hash"].(string)
	if ap.ID == "" || ap.Type == "" {
		return AssetPayload{}, fmt.Errorf("must declare id and type")
	}
	return ap, nil
}
